package importer_test

import (
	"context"
	"errors"
	"runtime"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GuitarSoul/putty-sessions/internal/importer"
)

type call struct {
	name string
	args []string
}

type fakeRunner struct {
	calls []call
	fail  map[string]error
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) error {
	f.calls = append(f.calls, call{name: name, args: args})
	return f.fail[args[len(args)-1]]
}

func TestImportRunsCommandPerFile(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{}
	logger, _ := logtest.NewNullLogger()
	imp := importer.New(nil, runner, logger)

	outcomes := imp.Import(context.Background(), []string{`out\a.reg`, `out\b.reg`})

	assert.Equal(t, []call{
		{name: "reg", args: []string{"import", `out\a.reg`}},
		{name: "reg", args: []string{"import", `out\b.reg`}},
	}, runner.calls)
	require.Len(t, outcomes, 2)
	for _, o := range outcomes {
		assert.NoError(t, o.Err)
		assert.Zero(t, o.ExitCode)
	}
}

func TestImportContinuesAfterFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("executable file not found")
	runner := &fakeRunner{fail: map[string]error{"a.reg": boom}}
	logger, hook := logtest.NewNullLogger()
	imp := importer.New([]string{"regedit", "/s"}, runner, logger)

	outcomes := imp.Import(context.Background(), []string{"a.reg", "b.reg"})

	require.Len(t, runner.calls, 2)
	assert.Equal(t, []string{"/s", "b.reg"}, runner.calls[1].args)

	require.Len(t, outcomes, 2)
	assert.ErrorIs(t, outcomes[0].Err, boom)
	assert.Equal(t, -1, outcomes[0].ExitCode)
	assert.NoError(t, outcomes[1].Err)

	require.NotNil(t, hook.LastEntry())
	var warns int
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warns++
		}
	}
	assert.Equal(t, 1, warns)
}

func TestImportReportsExitCode(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}

	logger, hook := logtest.NewNullLogger()
	imp := importer.New([]string{"sh", "-c", "exit 3"}, importer.ExecRunner{}, logger)

	outcomes := imp.Import(context.Background(), []string{"session.reg"})

	require.Len(t, outcomes, 1)
	require.Error(t, outcomes[0].Err)
	assert.Equal(t, 3, outcomes[0].ExitCode)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, 3, hook.LastEntry().Data["exit_code"])
}
