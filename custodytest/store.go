package custodytest

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/reppay/custody/store/iavl"
)

// CommitKVStore returns a store instance that is using a filesystem backend
// engine to store the data.
// This implementation should be used instead of MemStore when you want the
// exact same storage implementation as the production instance is using.
func CommitKVStore(t testing.TB) (db iavl.CommitStore, cleanup func()) {
	t.Helper()

	dbpath, err := ioutil.TempDir("", "custodytest-")
	if err != nil {
		t.Fatalf("cannot create a temporary directory: %s", err)
	}
	db, err = iavl.NewCommitStore(dbpath, "db")
	if err != nil {
		os.RemoveAll(dbpath)
		t.Fatalf("cannot create a commit store: %s", err)
	}
	if err := db.LoadLatestVersion(); err != nil {
		t.Fatalf("cannot load latest version: %s", err)
	}
	return db, func() {
		db.Close()
		os.RemoveAll(dbpath)
	}
}
