package inventory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/ssdclean/pkg/ssdclean/platform"
	"github.com/jamesainslie/ssdclean/pkg/ssdclean/platform/platformtest"
	"github.com/jamesainslie/ssdclean/pkg/ssdclean/types"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// fixture creates install directories under a temp root and a scanner
// whose access times come from ages (days since last access, by
// directory name).
type fixture struct {
	root    string
	ages    map[string]int
	catalog *platformtest.Catalog
	runner  *platformtest.Runner
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{
		root:    t.TempDir(),
		ages:    map[string]int{},
		catalog: &platformtest.Catalog{},
		runner:  &platformtest.Runner{},
	}
}

// install adds a catalog entry whose directory exists and was last
// accessed ageDays ago.
func (f *fixture) install(t *testing.T, name string, ageDays int) string {
	t.Helper()
	dir := filepath.Join(f.root, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	f.ages[name] = ageDays
	f.catalog.Entries = append(f.catalog.Entries, platform.CatalogEntry{
		Key:              `HKLM\` + name,
		DisplayName:      name,
		InstallLocation:  dir,
		InstallDate:      "20200101",
		UninstallCommand: filepath.Join(dir, "uninstall.exe"),
	})
	return dir
}

func (f *fixture) scanner(opts ...Option) *Scanner {
	atime := func(info os.FileInfo) time.Time {
		return now.Add(-time.Duration(f.ages[info.Name()]) * 24 * time.Hour)
	}
	opts = append([]Option{WithClock(func() time.Time { return now }), WithStat(os.Stat, atime)}, opts...)
	return New(f.catalog, f.runner, platformtest.Commands().Shell, opts...)
}

func names(programs []types.InstalledProgram) []string {
	out := make([]string, len(programs))
	for i, p := range programs {
		out[i] = p.Name
	}
	return out
}

func TestListInactive_ThresholdAndOrder(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.install(t, "Zeta", 400)
	f.install(t, "Alpha", 10)
	f.install(t, "Mid", 45)
	f.install(t, "Edge", 30)

	s := f.scanner()

	assert.Equal(t, []string{"Zeta", "Mid"}, names(s.ListInactive(30)), "exactly 30 days is not more than 30")
	assert.Equal(t, []string{"Zeta", "Mid", "Edge"}, names(s.ListInactive(29)))
	assert.Equal(t, []string{"Zeta"}, names(s.ListInactive(365)))
	assert.Equal(t, []string{"Zeta", "Alpha", "Mid", "Edge"}, names(s.ListInactive(0)))
}

func TestListInactive_FieldsPopulated(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	dir := f.install(t, "Old Tool", 100)

	got := f.scanner().ListInactive(30)
	require.Len(t, got, 1)

	p := got[0]
	assert.Equal(t, "Old Tool", p.Name)
	assert.Equal(t, dir, p.InstallLocation)
	assert.Equal(t, filepath.Join(dir, "uninstall.exe"), p.UninstallCommand)
	assert.Equal(t, "20200101", p.InstallDate)
	assert.Equal(t, `HKLM\Old Tool`, p.Source)
	assert.Equal(t, 100, p.InactiveDays(now))
}

func TestListInactive_SubsetMonotonic(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	for i, age := range []int{0, 3, 15, 29, 30, 31, 60, 90, 364, 1000} {
		f.install(t, string(rune('A'+i)), age)
	}
	s := f.scanner()

	thresholds := []int{0, 1, 7, 30, 31, 90, 365, 2000}
	for i := 0; i+1 < len(thresholds); i++ {
		lo := names(s.ListInactive(thresholds[i]))
		hi := names(s.ListInactive(thresholds[i+1]))
		assert.Subset(t, lo, hi, "ListInactive(%d) ⊄ ListInactive(%d)", thresholds[i+1], thresholds[i])
	}
}

func TestListInactive_DeletedInstallPathExcluded(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	gone := f.install(t, "Removed", 500)
	f.install(t, "Present", 500)
	require.NoError(t, os.RemoveAll(gone))

	assert.Equal(t, []string{"Present"}, names(f.scanner().ListInactive(30)))
}

func TestListInactive_SkipsIncompleteAndUnreadable(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.install(t, "Good", 100)
	f.install(t, "Broken", 100)
	f.catalog.ReadErrs = map[string]error{`HKLM\Broken`: errors.New("access denied")}
	f.catalog.Entries = append(f.catalog.Entries,
		platform.CatalogEntry{Key: "no-name", InstallLocation: f.root, UninstallCommand: "x"},
		platform.CatalogEntry{Key: "no-location", DisplayName: "Driver", UninstallCommand: "x"},
		platform.CatalogEntry{Key: "no-uninstall", DisplayName: "Runtime", InstallLocation: f.root},
	)

	assert.Equal(t, []string{"Good"}, names(f.scanner().ListInactive(30)))
}

func TestListInactive_QuotedInstallLocation(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	dir := f.install(t, "Quoted", 100)
	f.catalog.Entries[0].InstallLocation = `"` + dir + `"`

	got := f.scanner().ListInactive(30)
	require.Len(t, got, 1)
	assert.Equal(t, dir, got[0].InstallLocation)
}

func TestListInactive_CatalogFailure(t *testing.T) {
	t.Parallel()

	for _, err := range []error{errors.New("registry unavailable"), platform.ErrNoCatalog} {
		f := newFixture(t)
		f.catalog.KeysErr = err

		got := f.scanner().ListInactive(30)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	}
}

func TestListInactive_NegativeDaysClamped(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.install(t, "Fresh", 0)

	// Zero age means LastAccess == now, which is not strictly older than
	// a zero threshold.
	assert.Empty(t, f.scanner().ListInactive(-5))

	f.install(t, "Day", 1)
	assert.Equal(t, []string{"Day"}, names(f.scanner().ListInactive(-5)))
}

func TestListInactive_NameFilter(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.install(t, "Acme Toolbar", 100)
	f.install(t, "Acme Updater", 100)
	f.install(t, "Other", 100)

	got := f.scanner(WithNameFilter("*TOOLBAR*")).ListInactive(30)
	assert.Equal(t, []string{"Acme Toolbar"}, names(got))

	got = f.scanner(WithNameFilter("acme*")).ListInactive(30)
	assert.Equal(t, []string{"Acme Toolbar", "Acme Updater"}, names(got))
}

func TestFind(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.install(t, "Recent App", 1)
	f.install(t, "Legacy App", 900)
	s := f.scanner()

	p, ok := s.Find("recent app")
	require.True(t, ok)
	assert.Equal(t, "Recent App", p.Name)

	_, ok = s.Find("Missing App")
	assert.False(t, ok)
}

func TestQuietCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{`MsiExec.exe /X{1234-ABCD}`, `MsiExec.exe /X{1234-ABCD}`},
		{`msiexec /x {GUID} /qn`, `msiexec /x {GUID} /qn`},
		{`"C:\Program Files\App\uninst.exe"`, `"C:\Program Files\App\uninst.exe" /quiet`},
		{`  C:\App\remove.exe  `, `C:\App\remove.exe /quiet`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, QuietCommand(tt.in), "QuietCommand(%q)", tt.in)
	}
}

func TestUninstall(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("installer package runs unchanged", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		ok := f.scanner().Uninstall(ctx, "MsiExec.exe /X{GUID}")
		assert.True(t, ok)
		assert.Equal(t, []string{"sh MsiExec.exe /X{GUID}"}, f.runner.Lines())
	})

	t.Run("other uninstallers run quietly", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		ok := f.scanner().Uninstall(ctx, `C:\App\uninstall.exe`)
		assert.True(t, ok)
		assert.Equal(t, []string{`sh C:\App\uninstall.exe /quiet`}, f.runner.Lines())
	})

	t.Run("non-zero exit reports failure", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.runner.Fail = []string{"uninstall.exe"}
		assert.False(t, f.scanner().Uninstall(ctx, `C:\App\uninstall.exe`))
	})

	t.Run("empty command", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		assert.False(t, f.scanner().Uninstall(ctx, "   "))
		assert.Empty(t, f.runner.Calls())
	})
}
