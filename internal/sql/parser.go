package sql

import (
	"errors"
	"strings"

	"vddb/internal/dberr"
)

// Parse parses a single command line into a Statement.
//
// Keywords are case-insensitive; table and column names keep their case.
// The grammar has no statement terminator, so a ';' anywhere is a syntax
// error. Every failure is a *dberr.Error of kind KindSyntax carrying the
// expected form of the command.
func Parse(query string) (Statement, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, dberr.Syntax(hintCommand, "empty command")
	}

	toks, err := lex(q)
	if err != nil {
		var de *dberr.Error
		if errors.As(err, &de) && de.Hint == "" {
			de.Hint = hintFor(q)
		}
		return nil, err
	}

	first := toks[0]
	switch {
	case first.is("CREATE"):
		return parseCreateTable(toks)
	case first.is("DROP"):
		if toks[1].is("INDEX") {
			return parseDropIndex(toks, hintDropIndex)
		}
		return parseDropTable(toks)
	case first.is("INSERT"):
		return parseInsert(toks)
	case first.is("SELECT"):
		return parseSelect(toks)
	case first.is("DELETE"):
		return parseDelete(toks)
	case first.is("START"), first.is("BEGIN"):
		return parseBegin(toks)
	case first.is("COMMIT"):
		return parseCommit(toks)
	case first.is("ROLLBACK"):
		return parseRollback(toks)
	case first.is("MAKE"):
		return parseCreateIndex(toks)
	case first.is("UNMAKE"):
		return parseDropIndex(toks, hintUnmakeIndex)
	case first.is("EXIT"):
		return parseExit(toks)
	default:
		return nil, dberr.Syntax(hintCommand, "unknown command %s", first)
	}
}

// hintFor picks the expected form from the leading words of a raw line.
func hintFor(q string) string {
	words := strings.Fields(strings.ToUpper(q))
	if len(words) == 0 {
		return hintCommand
	}
	switch words[0] {
	case "CREATE":
		return hintCreateTable
	case "DROP":
		if len(words) > 1 && words[1] == "INDEX" {
			return hintDropIndex
		}
		return hintDropTable
	case "INSERT":
		return hintInsert
	case "SELECT":
		return hintSelect
	case "DELETE":
		return hintDelete
	case "START", "BEGIN":
		return hintStart
	case "COMMIT", "COMMIT;":
		return hintCommit
	case "ROLLBACK", "ROLLBACK;":
		return hintRollback
	case "MAKE":
		return hintMakeIndex
	case "UNMAKE":
		return hintUnmakeIndex
	case "EXIT", "EXIT;":
		return hintExit
	default:
		return hintCommand
	}
}
