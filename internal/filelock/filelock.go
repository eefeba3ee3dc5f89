// Package filelock serialises writers of the config file across processes
// with an advisory lock on a sibling ".lock" file.
package filelock

import "os"

const lockFileMode = 0o600

// Suffix is appended to the guarded path to name the lock file.
const Suffix = ".lock"

// Lock acquires an exclusive advisory lock on the file at path, creating it
// if it does not exist. It blocks until the lock is available. The returned
// function releases the lock.
func Lock(path string) (unlock func() error, err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, lockFileMode) //nolint:gosec // lock file path from trusted source
	if err != nil {
		return nil, err
	}

	if err := lockFile(f); err != nil {
		_ = f.Close()
		return nil, err
	}

	return func() error {
		unlockErr := unlockFile(f)
		closeErr := f.Close()
		if unlockErr != nil {
			return unlockErr
		}
		return closeErr
	}, nil
}

// With runs fn while holding the lock guarding target.
func With(target string, fn func() error) error {
	unlock, err := Lock(target + Suffix)
	if err != nil {
		return err
	}
	fnErr := fn()
	if err := unlock(); err != nil && fnErr == nil {
		return err
	}
	return fnErr
}
