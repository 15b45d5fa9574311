package store

import "database/sql"

// isAffected reports whether an UPDATE touched any row, grounded on the
// teacher's sql/util.go helper of the same name and used the same way the
// teacher uses it in Complete/ExtendLock/Return/Kill: run the UPDATE with
// every ownership predicate in its WHERE clause, then treat zero affected
// rows as a lost race rather than re-checking with a prior SELECT.
func isAffected(res sql.Result) bool {
	rows, err := res.RowsAffected()
	if err != nil {
		return true
	}
	return rows != 0
}
