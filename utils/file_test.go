package utils

import (
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"
)

func TestFindFilesWithExtension(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested", "deeper")
	test.That(t, os.MkdirAll(sub, 0o755), test.ShouldBeNil)
	for _, fn := range []string{
		filepath.Join(dir, "apartment_0.glb"),
		filepath.Join(dir, "notes.txt"),
		filepath.Join(sub, "apartment_1.glb"),
	} {
		test.That(t, os.WriteFile(fn, []byte("scene"), 0o644), test.ShouldBeNil)
	}

	found, err := FindFilesWithExtension(dir, ".glb")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(found), test.ShouldEqual, 2)
	for _, fn := range found {
		test.That(t, filepath.Ext(fn), test.ShouldEqual, ".glb")
	}

	found, err = FindFilesWithExtension(dir, ".txt")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, found, test.ShouldResemble, []string{filepath.Join(dir, "notes.txt")})

	_, err = FindFilesWithExtension(filepath.Join(dir, "missing"), ".glb")
	test.That(t, err, test.ShouldNotBeNil)

	_, err = FindFilesWithExtension(dir, "")
	test.That(t, err, test.ShouldNotBeNil)
}
