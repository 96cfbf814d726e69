package osql

import (
	"errors"
	"fmt"
)

// Standard sentinel errors. Every typed error below matches its sentinel
// through errors.Is.
var (
	// ErrWrongArgument is returned when a caller passes structurally invalid
	// input to a query builder.
	ErrWrongArgument = errors.New("osql: wrong argument")

	// ErrConnection is returned when a backend refuses or cannot establish a connection.
	ErrConnection = errors.New("osql: connection failed")

	// ErrDuplicateEntity is returned when a write violates a uniqueness constraint.
	ErrDuplicateEntity = errors.New("osql: duplicate entity")

	// ErrDatabase is returned for any other backend failure during query execution.
	ErrDatabase = errors.New("osql: database error")

	// ErrTooManyRows is returned when a single-row query returns more than one row.
	ErrTooManyRows = errors.New("osql: too many rows")

	// ErrUnimplemented is returned for capabilities a backend implementation lacks.
	ErrUnimplemented = errors.New("osql: feature not implemented")

	// ErrUnsupported is returned for features or methods a backend does not support.
	ErrUnsupported = errors.New("osql: not supported")
)

// ArgumentError represents a caller contract violation: a missing join
// operator, a raw field name containing '*' or '.', an unknown field type.
type ArgumentError struct {
	msg string
}

// Error returns the error string.
func (e *ArgumentError) Error() string {
	return "osql: wrong argument: " + e.msg
}

// Is reports whether the target error matches ArgumentError.
func (e *ArgumentError) Is(err error) bool {
	return err == ErrWrongArgument
}

// NewArgumentError returns a new ArgumentError with a formatted message.
func NewArgumentError(format string, args ...any) *ArgumentError {
	return &ArgumentError{msg: fmt.Sprintf(format, args...)}
}

// IsArgumentError returns true if the error is an ArgumentError.
func IsArgumentError(err error) bool {
	if err == nil {
		return false
	}
	var e *ArgumentError
	return errors.As(err, &e)
}

// ConnectionError represents a backend refusing a connection.
type ConnectionError struct {
	Dialect string // Backend dialect name
	Err     error  // Native backend error
}

// Error returns the error string.
func (e *ConnectionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("osql: can not connect to %s base", e.Dialect)
	}
	return fmt.Sprintf("osql: can not open %s base: %v", e.Dialect, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// Is reports whether the target error matches ConnectionError.
func (e *ConnectionError) Is(err error) bool {
	return err == ErrConnection
}

// NewConnectionError returns a new ConnectionError.
func NewConnectionError(dialect string, err error) *ConnectionError {
	return &ConnectionError{Dialect: dialect, Err: err}
}

// IsConnectionError returns true if the error is a ConnectionError.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var e *ConnectionError
	return errors.As(err, &e)
}

// DuplicateEntityError represents a uniqueness or constraint violation
// reported by the backend on write.
type DuplicateEntityError struct {
	Query string // Offending query text
	Err   error  // Native backend error
}

// Error returns the error string.
func (e *DuplicateEntityError) Error() string {
	return fmt.Sprintf("osql: duplicate entity: %v: %s", e.Err, e.Query)
}

// Unwrap returns the underlying error.
func (e *DuplicateEntityError) Unwrap() error {
	return e.Err
}

// Is reports whether the target error matches DuplicateEntityError.
func (e *DuplicateEntityError) Is(err error) bool {
	return err == ErrDuplicateEntity
}

// NewDuplicateEntityError returns a new DuplicateEntityError.
func NewDuplicateEntityError(query string, err error) *DuplicateEntityError {
	return &DuplicateEntityError{Query: query, Err: err}
}

// IsDuplicateEntity returns true if the error is a DuplicateEntityError.
func IsDuplicateEntity(err error) bool {
	if err == nil {
		return false
	}
	var e *DuplicateEntityError
	return errors.As(err, &e)
}

// DatabaseError represents any backend failure that is not a constraint
// violation.
type DatabaseError struct {
	Query string // Offending query text
	Err   error  // Native backend error
}

// Error returns the error string.
func (e *DatabaseError) Error() string {
	return fmt.Sprintf("osql: %v: %s", e.Err, e.Query)
}

// Unwrap returns the underlying error.
func (e *DatabaseError) Unwrap() error {
	return e.Err
}

// Is reports whether the target error matches DatabaseError.
func (e *DatabaseError) Is(err error) bool {
	return err == ErrDatabase
}

// NewDatabaseError returns a new DatabaseError.
func NewDatabaseError(query string, err error) *DatabaseError {
	return &DatabaseError{Query: query, Err: err}
}

// IsDatabaseError returns true if the error is a DatabaseError.
func IsDatabaseError(err error) bool {
	if err == nil {
		return false
	}
	var e *DatabaseError
	return errors.As(err, &e)
}

// TooManyRowsError represents a single-row query that returned several rows.
type TooManyRowsError struct {
	count int
}

// Error returns the error string.
func (e *TooManyRowsError) Error() string {
	return fmt.Sprintf("osql: query returned too many rows (got %d, we need only one)", e.count)
}

// Is reports whether the target error matches TooManyRowsError.
func (e *TooManyRowsError) Is(err error) bool {
	return err == ErrTooManyRows
}

// Count returns the number of rows the query produced.
func (e *TooManyRowsError) Count() int {
	return e.count
}

// NewTooManyRowsError returns a new TooManyRowsError.
func NewTooManyRowsError(count int) *TooManyRowsError {
	return &TooManyRowsError{count: count}
}

// IsTooManyRows returns true if the error is a TooManyRowsError.
func IsTooManyRows(err error) bool {
	if err == nil {
		return false
	}
	var e *TooManyRowsError
	return errors.As(err, &e)
}

// UnimplementedFeatureError represents a capability this backend
// implementation does not provide.
type UnimplementedFeatureError struct {
	Feature string
}

// Error returns the error string.
func (e *UnimplementedFeatureError) Error() string {
	return fmt.Sprintf("osql: %s is not implemented", e.Feature)
}

// Is reports whether the target error matches UnimplementedFeatureError.
func (e *UnimplementedFeatureError) Is(err error) bool {
	return err == ErrUnimplemented
}

// NewUnimplementedFeatureError returns a new UnimplementedFeatureError.
func NewUnimplementedFeatureError(feature string) *UnimplementedFeatureError {
	return &UnimplementedFeatureError{Feature: feature}
}

// IsUnimplementedFeature returns true if the error is an UnimplementedFeatureError.
func IsUnimplementedFeature(err error) bool {
	if err == nil {
		return false
	}
	var e *UnimplementedFeatureError
	return errors.As(err, &e)
}

// UnsupportedFeatureError represents a query feature the target dialect
// cannot express, such as a RETURNING clause.
type UnsupportedFeatureError struct {
	Feature string
	Dialect string
}

// Error returns the error string.
func (e *UnsupportedFeatureError) Error() string {
	return fmt.Sprintf("osql: %s is not supported by %s dialect", e.Feature, e.Dialect)
}

// Is reports whether the target error matches UnsupportedFeatureError.
func (e *UnsupportedFeatureError) Is(err error) bool {
	return err == ErrUnsupported
}

// NewUnsupportedFeatureError returns a new UnsupportedFeatureError.
func NewUnsupportedFeatureError(feature, dialect string) *UnsupportedFeatureError {
	return &UnsupportedFeatureError{Feature: feature, Dialect: dialect}
}

// IsUnsupportedFeature returns true if the error is an UnsupportedFeatureError.
func IsUnsupportedFeature(err error) bool {
	if err == nil {
		return false
	}
	var e *UnsupportedFeatureError
	return errors.As(err, &e)
}

// UnsupportedMethodError represents a method a backend has no notion of,
// such as setting the connection encoding on SQLite.
type UnsupportedMethodError struct {
	Method string
}

// Error returns the error string.
func (e *UnsupportedMethodError) Error() string {
	return fmt.Sprintf("osql: method %s is not supported", e.Method)
}

// Is reports whether the target error matches UnsupportedMethodError.
func (e *UnsupportedMethodError) Is(err error) bool {
	return err == ErrUnsupported
}

// NewUnsupportedMethodError returns a new UnsupportedMethodError.
func NewUnsupportedMethodError(method string) *UnsupportedMethodError {
	return &UnsupportedMethodError{Method: method}
}

// IsUnsupportedMethod returns true if the error is an UnsupportedMethodError.
func IsUnsupportedMethod(err error) bool {
	if err == nil {
		return false
	}
	var e *UnsupportedMethodError
	return errors.As(err, &e)
}

// QueryError wraps a read failure with the table and operation.
type QueryError struct {
	Table string // Table being queried
	Op    string // Operation (e.g., "get", "column", "set")
	Err   error  // Underlying error
}

// Error returns the error string.
func (e *QueryError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("osql: querying %s (%s): %v", e.Table, e.Op, e.Err)
	}
	return fmt.Sprintf("osql: querying %s: %v", e.Table, e.Err)
}

// Unwrap returns the underlying error.
func (e *QueryError) Unwrap() error {
	return e.Err
}

// NewQueryError returns a new QueryError.
func NewQueryError(table, op string, err error) *QueryError {
	return &QueryError{Table: table, Op: op, Err: err}
}

// IsQueryError returns true if the error is a QueryError.
func IsQueryError(err error) bool {
	if err == nil {
		return false
	}
	var e *QueryError
	return errors.As(err, &e)
}

// MutationError wraps a write failure with the table and operation.
type MutationError struct {
	Table string // Table being mutated
	Op    string // Operation (e.g., "take", "drop")
	Err   error  // Underlying error
}

// Error returns the error string.
func (e *MutationError) Error() string {
	return fmt.Sprintf("osql: %s %s: %v", e.Op, e.Table, e.Err)
}

// Unwrap returns the underlying error.
func (e *MutationError) Unwrap() error {
	return e.Err
}

// NewMutationError returns a new MutationError.
func NewMutationError(table, op string, err error) *MutationError {
	return &MutationError{Table: table, Op: op, Err: err}
}

// IsMutationError returns true if the error is a MutationError.
func IsMutationError(err error) bool {
	if err == nil {
		return false
	}
	var e *MutationError
	return errors.As(err, &e)
}
