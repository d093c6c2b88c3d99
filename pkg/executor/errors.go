package executor

import dberr "relcore/pkg/error"

// ErrCode classifies an ExecError by its semantic kind, not by Go type.
type ErrCode = string

const (
	ErrUnknownTable         ErrCode = "UNKNOWN_TABLE"
	ErrUnknownColumn        ErrCode = "UNKNOWN_COLUMN"
	ErrUnknownIndex         ErrCode = "UNKNOWN_INDEX"
	ErrTableExists          ErrCode = "TABLE_EXISTS"
	ErrIndexExists          ErrCode = "INDEX_EXISTS"
	ErrSchemaProtected      ErrCode = "SCHEMA_PROTECTED"
	ErrUnsupportedType      ErrCode = "UNSUPPORTED_TYPE"
	ErrUnsupportedPredicate ErrCode = "UNSUPPORTED_PREDICATE"
	ErrUnsupportedInsert    ErrCode = "UNSUPPORTED_INSERT"
	ErrTypeMismatch         ErrCode = "TYPE_MISMATCH"
	ErrStorage              ErrCode = "STORAGE_ERROR"
	// ErrNotImplemented classifies an unrecognized statement kind. Per
	// spec.md §7 this is always returned as a Result message, never raised
	// as an *ExecError; the constant exists so the error-kind taxonomy is
	// complete for callers that branch on ErrCode.
	ErrNotImplemented ErrCode = "NOT_IMPLEMENTED"
)

// ExecError is the single error family every Execute call surfaces. It is
// dberr.DBError itself, not a reimplementation: every executor error is a
// structured, categorized error with operation/component context and
// chainable causes, the same as the rest of this module's error handling.
type ExecError = dberr.DBError

// categoryFor classifies an ErrCode for the underlying DBError: everything
// the caller can fix by changing their statement is ErrCategoryUser, a
// failure in the storage layer itself is ErrCategorySystem.
func categoryFor(code ErrCode) dberr.ErrorCategory {
	if code == ErrStorage {
		return dberr.ErrCategorySystem
	}
	return dberr.ErrCategoryUser
}

// New creates an ExecError carrying no underlying cause.
func New(code ErrCode, message string) *ExecError {
	return dberr.New(categoryFor(code), code, message)
}

// Wrap attaches operation/component context to an existing error. If err
// is already an *ExecError its code and category are preserved and only
// empty operation/component fields are filled in; otherwise a new
// ErrStorage ExecError is built around it.
func Wrap(err error, operation, component string) *ExecError {
	if err == nil {
		return nil
	}
	return dberr.Wrap(err, ErrStorage, operation, component)
}
