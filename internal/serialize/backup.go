package serialize

import (
	"fmt"
	"io"
	"os"
)

// BackupSuffix is appended to a file's path for its pre-save backup copy.
const BackupSuffix = ".backup"

// Backup copies the file at path to path+BackupSuffix, overwriting any prior
// backup. This is an unconditional pre-save side effect.
//
// Postcondition: on success the backup holds the file's current content.
func Backup(path string) error {
	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s for backup: %w", path, err)
	}
	defer src.Close()

	dst, err := os.Create(path + BackupSuffix)
	if err != nil {
		return fmt.Errorf("creating backup of %s: %w", path, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("writing backup of %s: %w", path, err)
	}
	if err := dst.Sync(); err != nil {
		return fmt.Errorf("flushing backup of %s: %w", path, err)
	}
	return nil
}

// WriteFileWithBackup backs up the existing file then overwrites it with
// data. A write failure after a successful backup leaves the backup intact
// and is surfaced to the caller, never swallowed.
func WriteFileWithBackup(path string, data []byte) error {
	if err := Backup(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s (backup retained at %s%s): %w", path, path, BackupSuffix, err)
	}
	return nil
}
