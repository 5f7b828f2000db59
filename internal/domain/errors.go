package domain

import "errors"

var (
	ErrMissingUpload      = errors.New("no file uploaded")
	ErrUploadTooLarge     = errors.New("uploaded file exceeds the size limit")
	ErrEmptyRules         = errors.New("rule text produced no rules")
	ErrEmptyMapping       = errors.New("column mapping is empty")
	ErrBadArchive         = errors.New("archive cannot be opened")
	ErrBadDelimiter       = errors.New("delimiter must be a single character")
	ErrJobNotFound        = errors.New("job not found")
	ErrJobNotDone         = errors.New("job has not finished")
	ErrJobFailed          = errors.New("job finished with an error")
	ErrInvoiceBodyMissing = errors.New("infNFCom block not found in XML")
)
