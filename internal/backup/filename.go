package backup

import "time"

const (
	fileNamePrefix      = "finance-backup-"
	plainFileSuffix     = ".json"
	encryptedFileSuffix = ".encrypted.json"
)

// FileName returns the suggested file name for a backup taken at now.
func FileName(now time.Time, encrypted bool) string {
	name := fileNamePrefix + now.UTC().Format("2006-01-02")
	if encrypted {
		return name + encryptedFileSuffix
	}
	return name + plainFileSuffix
}
