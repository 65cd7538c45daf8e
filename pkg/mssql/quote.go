package mssql

import "strings"

// QuoteName wraps an identifier in brackets, doubling any closing bracket,
// the same escaping QUOTENAME() applies server-side. Every identifier that
// ends up in dynamic SQL goes through here.
func QuoteName(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

// QuoteString renders a T-SQL unicode string literal with quotes doubled.
func QuoteString(s string) string {
	return "N'" + strings.ReplaceAll(s, "'", "''") + "'"
}
