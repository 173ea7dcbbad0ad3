package postgres

import "github.com/Masterminds/squirrel"

// builder returns a squirrel builder with PostgreSQL placeholders.
func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Builder is the exported form used by the repository packages.
func Builder() squirrel.StatementBuilderType {
	return builder()
}
