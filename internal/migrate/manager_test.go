package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSplitStatements(t *testing.T) {
	sql := `
create table a (id text);
insert into a values ('x;y');
create index a_idx on a (id)
`
	stmts := splitStatements(sql)
	if len(stmts) != 3 {
		t.Fatalf("got %d statements, want 3: %#v", len(stmts), stmts)
	}
	// The semicolon inside the string literal must not split.
	if got := stmts[1]; !strings.Contains(got, "'x;y'") {
		t.Errorf("literal split: %q", got)
	}
}

func TestCollectSQLOrdersByName(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"0002_b.up.sql", "0001_a.up.sql", "0001_a.down.sql", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("select 1;"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	files, err := collectSQL(dir, ".up.sql")
	if err != nil {
		t.Fatalf("collectSQL: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("got %d files, want 2", len(files))
	}
	if files[0].base != "0001_a.up.sql" || files[1].base != "0002_b.up.sql" {
		t.Errorf("order wrong: %v, %v", files[0].base, files[1].base)
	}
}

func TestCollectSQLMissingDir(t *testing.T) {
	files, err := collectSQL(filepath.Join(t.TempDir(), "nope"), ".sql")
	if err != nil {
		t.Fatalf("missing dir should not error, got %v", err)
	}
	if len(files) != 0 {
		t.Errorf("got %d files, want 0", len(files))
	}
}
