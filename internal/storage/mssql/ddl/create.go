package ddl

import (
	"fmt"
	"strings"

	gddl "firecalls/internal/ddl"
	"firecalls/internal/schema"
)

// BuildCreateTableSQL returns a T-SQL script that creates schemaName.table
// if it does not already exist:
//
//	IF OBJECT_ID(N'[schema].[table]', N'U') IS NULL
//	BEGIN
//	  CREATE TABLE [schema].[table] (
//	    [col1] TYPE,
//	    ...
//	  );
//	END;
func BuildCreateTableSQL(schemaName, table string, cols []schema.Column) (string, error) {
	td := gddl.FromColumns(schemaName, table, cols, MapType)
	create, err := gddl.BuildCreateTableSQL(td, gddl.RenderOptions{Quote: QuoteIdent})
	if err != nil {
		return "", err
	}
	fqn := QuoteIdent(table)
	if schemaName != "" {
		fqn = QuoteIdent(schemaName) + "." + fqn
	}
	return fmt.Sprintf("%s\nBEGIN\n%s;\nEND;", ObjectGuard(fqn, "U"), create), nil
}

// ObjectGuard renders the IF OBJECT_ID(...) IS NULL test for a quoted name
// and object type (U = user table).
func ObjectGuard(quotedName, objType string) string {
	return fmt.Sprintf("IF OBJECT_ID(N'%s', N'%s') IS NULL", strings.ReplaceAll(quotedName, "'", "''"), objType)
}

// QuoteIdent quotes a single identifier segment using bracket syntax,
// escaping closing brackets.
//
//	name      -> [name]
//	weird]id  -> [weird]]id]
func QuoteIdent(id string) string {
	return "[" + strings.ReplaceAll(id, "]", "]]") + "]"
}
