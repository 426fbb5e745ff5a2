package csvfile

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kith/internal/core/domain"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "results.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func sampleLedger() *domain.Ledger {
	l := domain.NewLedger()
	l.Upsert(domain.LedgerKey{SourceID: "a.txt", PersonName: "Alice"}, []string{"chess", "reading"})
	l.Upsert(domain.LedgerKey{SourceID: "b.pdf", PersonName: "Bob, Jr."}, []string{`the "best" golf`})
	l.Upsert(domain.LedgerKey{SourceID: "c.docx", PersonName: "Carol"}, nil)
	l.Upsert(domain.LedgerKey{SourceID: "d.pages", PersonName: "Dörte"}, []string{"café", "R&D"})
	return l
}

func TestStore_Load_MissingFile(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "nope.csv"))

	ledger, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, ledger.Len())
}

func TestStore_Load_EmptyFile(t *testing.T) {
	store := New(writeFile(t, ""))

	ledger, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, ledger.Len())
}

func TestStore_Load_HeaderOnly(t *testing.T) {
	store := New(writeFile(t, "filename,name,interests\n"))

	ledger, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, ledger.Len())
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "results.csv")
	store := New(path)
	original := sampleLedger()

	require.NoError(t, store.Save(ctx, original))
	loaded, err := store.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, original.Keys(), loaded.Keys())
	for _, want := range original.Entries() {
		got, ok := loaded.Get(want.Key)
		require.True(t, ok, "missing %s", want.Key)
		assert.Equal(t, want.Interests.Sorted(), got.Interests.Sorted())
	}
}

func TestStore_SaveLoadSave_ByteStable(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "results.csv")
	store := New(path)

	require.NoError(t, store.Save(ctx, sampleLedger()))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, loaded))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestStore_SaveLoadSave_NameWithCRLF(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "results.csv")
	store := New(path)

	l := domain.NewLedger()
	l.Upsert(domain.LedgerKey{SourceID: "a.txt", PersonName: "Ann\r\nLee"}, []string{"tennis"})
	l.Upsert(domain.LedgerKey{SourceID: "b.txt", PersonName: "Bo\rKim"}, nil)

	require.NoError(t, store.Save(ctx, l))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.LedgerKey{
		{SourceID: "a.txt", PersonName: "Ann\nLee"},
		{SourceID: "b.txt", PersonName: "Bo\nKim"},
	}, loaded.Keys())

	require.NoError(t, store.Save(ctx, loaded))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
	assert.NotContains(t, string(first), "\r")
}

func TestEncode_Format(t *testing.T) {
	l := domain.NewLedger()
	l.Upsert(domain.LedgerKey{SourceID: "a.txt", PersonName: "Alice"}, []string{"reading", "chess"})
	l.Upsert(domain.LedgerKey{SourceID: "c.txt", PersonName: "Carol"}, nil)

	var buf bytes.Buffer
	require.NoError(t, Encode(context.Background(), &buf, l))

	expected := "filename,name,interests\n" +
		"a.txt,Alice,\"[\"\"chess\"\",\"\"reading\"\"]\"\n" +
		"c.txt,Carol,[]\n"
	assert.Equal(t, expected, buf.String())
}

func TestStore_Load_CorruptInterestsRow(t *testing.T) {
	content := "filename,name,interests\n" +
		"a.txt,Alice,\"[\"\"chess\"\"]\"\n" +
		"b.txt,Bob,{not json\n" +
		"c.txt,Carol,\"[\"\"golf\"\"]\"\n"
	store := New(writeFile(t, content))

	ledger, err := store.Load(context.Background())

	require.NoError(t, err)
	require.Equal(t, 3, ledger.Len())
	bob, ok := ledger.Get(domain.LedgerKey{SourceID: "b.txt", PersonName: "Bob"})
	require.True(t, ok)
	assert.Equal(t, 0, bob.Interests.Len())
	carol, _ := ledger.Get(domain.LedgerKey{SourceID: "c.txt", PersonName: "Carol"})
	assert.Equal(t, []string{"golf"}, carol.Interests.Sorted())
	alice, _ := ledger.Get(domain.LedgerKey{SourceID: "a.txt", PersonName: "Alice"})
	assert.Equal(t, []string{"chess"}, alice.Interests.Sorted())
}

func TestStore_Load_DuplicateKeysKeepLast(t *testing.T) {
	content := "filename,name,interests\n" +
		"a.txt,Alice,\"[\"\"chess\"\"]\"\n" +
		"b.txt,Bob,[]\n" +
		"a.txt,Alice,\"[\"\"golf\"\"]\"\n"
	store := New(writeFile(t, content))

	ledger, err := store.Load(context.Background())

	require.NoError(t, err)
	require.NoError(t, ledger.Validate())
	assert.Equal(t, []domain.LedgerKey{
		{SourceID: "b.txt", PersonName: "Bob"},
		{SourceID: "a.txt", PersonName: "Alice"},
	}, ledger.Keys())
	alice, _ := ledger.Get(domain.LedgerKey{SourceID: "a.txt", PersonName: "Alice"})
	assert.Equal(t, []string{"golf"}, alice.Interests.Sorted())
}

func TestStore_Load_ColumnsByName(t *testing.T) {
	content := "\ufeffInterests, Name ,extra,FILENAME\n" +
		"\"[\"\"chess\"\"]\",Alice,x,a.txt\n"
	store := New(writeFile(t, content))

	ledger, err := store.Load(context.Background())

	require.NoError(t, err)
	alice, ok := ledger.Get(domain.LedgerKey{SourceID: "a.txt", PersonName: "Alice"})
	require.True(t, ok)
	assert.Equal(t, []string{"chess"}, alice.Interests.Sorted())
}

func TestStore_Load_ShortRows(t *testing.T) {
	content := "filename,name,interests\n" +
		"a.txt,Alice\n" +
		"b.txt\n"
	store := New(writeFile(t, content))

	ledger, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []domain.LedgerKey{
		{SourceID: "a.txt", PersonName: "Alice"},
		{SourceID: "b.txt", PersonName: ""},
	}, ledger.Keys())
}

func TestStore_Load_MissingColumn(t *testing.T) {
	path := writeFile(t, "filename,interests\na.txt,[]\n")
	store := New(path)

	ledger, err := store.Load(context.Background())

	require.Error(t, err)
	assert.Nil(t, ledger)
	var loadErr *domain.LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, path, loadErr.Path)
	assert.ErrorIs(t, err, domain.ErrMissingColumn)
}

func TestStore_Load_MalformedCSV(t *testing.T) {
	store := New(writeFile(t, "filename,name,interests\na.txt,\"Alice,[]\n"))

	_, err := store.Load(context.Background())

	var loadErr *domain.LoadError
	assert.True(t, errors.As(err, &loadErr))
}

func TestStore_Load_Unreadable(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)

	_, err := store.Load(context.Background())

	var loadErr *domain.LoadError
	assert.True(t, errors.As(err, &loadErr))
}

func TestStore_Save_Failure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	store := New(filepath.Join(blocker, "results.csv"))

	err := store.Save(context.Background(), sampleLedger())

	var saveErr *domain.SaveError
	require.True(t, errors.As(err, &saveErr))
	assert.Equal(t, store.Path(), saveErr.Path)
}

func TestStore_Save_ReplacesAndLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "results.csv")
	store := New(path)

	require.NoError(t, store.Save(ctx, sampleLedger()))
	require.NoError(t, store.Save(ctx, domain.NewLedger()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "filename,name,interests\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestStore_Save_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out", "results.csv")
	store := New(path)

	require.NoError(t, store.Save(context.Background(), sampleLedger()))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestStore_Save_ScenarioB(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "results.csv")
	store := New(path)

	l := domain.NewLedger()
	l.Upsert(domain.LedgerKey{SourceID: "a.txt", PersonName: "Alice"}, []string{"chess"})
	l.Upsert(domain.LedgerKey{SourceID: "b.txt", PersonName: "Bob"}, []string{"golf"})
	require.NoError(t, store.Save(ctx, l))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	loaded.Upsert(domain.LedgerKey{SourceID: "a.txt", PersonName: "Alice"}, []string{"reading"})
	require.NoError(t, store.Save(ctx, loaded))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	expected := "filename,name,interests\n" +
		"b.txt,Bob,\"[\"\"golf\"\"]\"\n" +
		"a.txt,Alice,\"[\"\"chess\"\",\"\"reading\"\"]\"\n"
	assert.Equal(t, expected, string(data))
}

func TestStore_PathAndClose(t *testing.T) {
	store := New("out/results.csv")
	assert.Equal(t, "out/results.csv", store.Path())
	assert.NoError(t, store.Close())
}
