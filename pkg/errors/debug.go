package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// chain depth cap so a pathological wrap loop cannot flood a log entry
const maxChainDepth = 16

// ErrorDump is the loggable breakdown of an error: its typed code, the full
// wrap chain, and Postgres driver details when a *pgconn.PgError is inside.
type ErrorDump struct {
	TopMessage string   `json:"top_message"`
	Code       Code     `json:"code,omitempty"`
	Chain      []string `json:"chain,omitempty"`

	PGCode       string `json:"pg_code,omitempty"`
	PGConstraint string `json:"pg_constraint,omitempty"`
	PGTable      string `json:"pg_table,omitempty"`
	PGColumn     string `json:"pg_column,omitempty"`
	PGDetail     string `json:"pg_detail,omitempty"`
	PGMessage    string `json:"pg_message,omitempty"`
}

// Dump flattens err for structured logging.
func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	dump := ErrorDump{TopMessage: err.Error()}
	if typed := As(err); typed != nil {
		dump.Code = typed.Code()
	}
	dump.Chain = unwrapChain(err)
	dump.applyPG(err)
	return dump
}

func unwrapChain(err error) []string {
	var chain []string
	for e := err; e != nil && len(chain) < maxChainDepth; e = errors.Unwrap(e) {
		chain = append(chain, fmt.Sprintf("%T: %v", e, e))
	}
	return chain
}

func (d *ErrorDump) applyPG(err error) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return
	}
	d.PGCode = pgErr.Code
	d.PGConstraint = pgErr.ConstraintName
	d.PGTable = pgErr.TableName
	d.PGColumn = pgErr.ColumnName
	d.PGDetail = pgErr.Detail
	d.PGMessage = pgErr.Message
}
