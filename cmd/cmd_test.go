package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suderio/rpdice/internal/engine"
	"github.com/suderio/rpdice/internal/parser"
)

func resetFlags(flags ...*pflag.FlagSet) {
	for _, fs := range flags {
		fs.VisitAll(func(f *pflag.Flag) {
			if sv, ok := f.Value.(pflag.SliceValue); ok {
				_ = sv.Replace(nil)
			} else {
				_ = f.Value.Set(f.DefValue)
			}
			f.Changed = false
		})
	}
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Cleanup(func() {
		resetFlags(rootCmd.PersistentFlags(), simulateCmd.Flags())
		cfgFile = ""
		viper.Reset()
	})

	var out, errOut bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func rolled(t *testing.T, seed uint64, inputs ...string) string {
	t.Helper()
	gen := engine.NewGenerator(seed)
	var b strings.Builder
	for _, input := range inputs {
		cmd, err := parser.Parse(input)
		require.NoError(t, err)
		for _, line := range engine.Evaluate(cmd, gen).Lines() {
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}

func TestRollCommand(t *testing.T) {
	out, errOut, err := execute(t, "", "roll", "--seed", "42", "4d6kh3", "+", "2")
	require.NoError(t, err)
	assert.Empty(t, errOut)
	assert.Equal(t, rolled(t, 42, "4d6kh3+2"), out)
}

func TestRollCommandRejects(t *testing.T) {
	_, errOut, err := execute(t, "", "roll", "--seed", "1", "d6+")
	assert.ErrorIs(t, err, errRejected)
	assert.Equal(t, "Invalid input: unparsable number\n", errOut)
}

func TestREPLCommand(t *testing.T) {
	out, errOut, err := execute(t, "3d6+2\nd0\nd20ra\nq\n3d6\n", "--seed", "9", "--banner=false", "--prompt=")
	require.NoError(t, err)
	assert.Equal(t, rolled(t, 9, "3d6+2", "d20ra"), out)
	assert.Equal(t, "Invalid input: malformed command\n", errOut)
}

func TestREPLSubcommandPrintsBanner(t *testing.T) {
	out, _, err := execute(t, "q\n", "repl", "--seed", "9")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Input your roll or q to quit\n"))
	assert.True(t, strings.HasSuffix(out, ">"))
}

func TestCheckCommand(t *testing.T) {
	out, _, err := execute(t, "", "check", "--seed", "1", `roll("1d1") + 1 == 2`)
	require.NoError(t, err)
	assert.Equal(t, "=> true\n", out)
}

func TestSimulateCommand(t *testing.T) {
	out, _, err := execute(t, "", "simulate", "--seed", "3", "-n", "50", "-q", "1d1+1")
	require.NoError(t, err)
	assert.Contains(t, out, "Rolls: 50\n")
	assert.Contains(t, out, "Min: 2\n")
	assert.Contains(t, out, "Max: 2\n")
	assert.Contains(t, out, "Mean: 2.00\n")
	assert.Contains(t, out, "100.00%")
}

func TestSimulateRejectsBadExpression(t *testing.T) {
	_, errOut, err := execute(t, "", "simulate", "--seed", "3", "-q", "d20kh1ra")
	assert.ErrorIs(t, err, errRejected)
	assert.Equal(t, "Invalid input; conflicting limits\n", errOut)
}

func TestMacrosCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "macros.yaml")
	require.NoError(t, os.WriteFile(path, []byte("macros:\n  fireball: 8d6\n  attack: d20 + 5\n"), 0o644))

	out, _, err := execute(t, "", "macros", "--macros", path)
	require.NoError(t, err)
	assert.Equal(t, "@attack    d20+5\n@fireball  8d6\n", out)

	out, _, err = execute(t, "", "roll", "--seed", "4", "--macros", path, "@fireball+1")
	require.NoError(t, err)
	assert.Equal(t, rolled(t, 4, "8d6+1"), out)
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rpdice.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seed: 21\nmax_dice: 3\n"), 0o644))

	out, _, err := execute(t, "", "roll", "--config", path, "3d6")
	require.NoError(t, err)
	assert.Equal(t, rolled(t, 21, "3d6"), out)

	_, errOut, err := execute(t, "", "roll", "--config", path, "4d6")
	assert.ErrorIs(t, err, errRejected)
	assert.Equal(t, "Invalid input: unparsable number\n", errOut)
}

func TestBadLogLevel(t *testing.T) {
	_, _, err := execute(t, "", "roll", "--log-level", "loud", "d6")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, errRejected)
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "rpdice version dev")
}
