package sqlparse

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/ondrovic/litepager/internal/sqltoken"
)

type parser struct {
	tokens []sqltoken.Token
	pos    int
}

// Parse tokenizes and parses sql as a single SELECT statement.
func Parse(sql string) (*Select, error) {
	tokens, err := sqltoken.Tokenize(sql)
	if err != nil {
		return nil, errors.Wrap(err, "sqlparse: tokenize")
	}
	p := &parser{tokens: tokens}
	stmt, err := p.parseSelect()
	if err != nil {
		return nil, err
	}
	if p.peek().Kind != sqltoken.EOF && p.peek().Kind != sqltoken.Semicolon {
		return nil, errors.Errorf("sqlparse: unexpected trailing token %s", p.peek().Kind)
	}
	return stmt, nil
}

func (p *parser) peek() sqltoken.Token {
	return p.tokens[p.pos]
}

func (p *parser) advance() sqltoken.Token {
	t := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *parser) expect(k sqltoken.Kind) (sqltoken.Token, error) {
	if p.peek().Kind != k {
		return sqltoken.Token{}, errors.Errorf("sqlparse: expected %s, got %s", k, p.peek().Kind)
	}
	return p.advance(), nil
}

// checkNext reports whether the current and next tokens are k1 then k2,
// without consuming either. Used for the two-token PRIMARY KEY lookahead.
func (p *parser) checkNext(k1, k2 sqltoken.Kind) bool {
	if p.peek().Kind != k1 {
		return false
	}
	next := p.pos
	if next < len(p.tokens)-1 {
		next++
	}
	return p.tokens[next].Kind == k2
}

func (p *parser) parseSelect() (*Select, error) {
	if _, err := p.expect(sqltoken.Select); err != nil {
		return nil, err
	}

	stmt := &Select{}
	if p.peek().Kind == sqltoken.Count {
		p.advance()
		if _, err := p.expect(sqltoken.LParen); err != nil {
			return nil, err
		}
		if _, err := p.expect(sqltoken.Star); err != nil {
			return nil, err
		}
		if _, err := p.expect(sqltoken.RParen); err != nil {
			return nil, err
		}
		stmt.CountStar = true
	} else {
		cols, err := p.parseColumnList()
		if err != nil {
			return nil, err
		}
		stmt.Columns = cols
	}

	if _, err := p.expect(sqltoken.From); err != nil {
		return nil, err
	}
	table, err := p.expect(sqltoken.Ident)
	if err != nil {
		return nil, errors.Wrap(err, "sqlparse: table name")
	}
	stmt.Table = table.Text

	if p.peek().Kind == sqltoken.Where {
		p.advance()
		conds, err := p.parseConditions()
		if err != nil {
			return nil, err
		}
		stmt.Where = conds
	}

	return stmt, nil
}

func (p *parser) parseColumnList() ([]string, error) {
	if p.peek().Kind == sqltoken.Star {
		p.advance()
		return nil, nil
	}
	var cols []string
	for {
		col, err := p.expect(sqltoken.Ident)
		if err != nil {
			return nil, errors.Wrap(err, "sqlparse: column name")
		}
		cols = append(cols, col.Text)
		if p.peek().Kind != sqltoken.Comma {
			break
		}
		p.advance()
	}
	return cols, nil
}

func (p *parser) parseConditions() ([]Condition, error) {
	var conds []Condition
	for {
		col, err := p.expect(sqltoken.Ident)
		if err != nil {
			return nil, errors.Wrap(err, "sqlparse: where column")
		}
		if _, err := p.expect(sqltoken.Eq); err != nil {
			return nil, err
		}
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		conds = append(conds, Condition{Column: col.Text, Value: lit})

		if p.peek().Kind != sqltoken.And {
			break
		}
		p.advance()
	}
	return conds, nil
}

func (p *parser) parseLiteral() (Literal, error) {
	switch p.peek().Kind {
	case sqltoken.String:
		t := p.advance()
		return Literal{IsString: true, Text: t.Text}, nil
	case sqltoken.Number:
		t := p.advance()
		n, err := strconv.ParseInt(t.Text, 10, 64)
		if err != nil {
			return Literal{}, errors.Wrapf(err, "sqlparse: numeric literal %q", t.Text)
		}
		return Literal{Num: n}, nil
	default:
		return Literal{}, errors.Errorf("sqlparse: expected a literal, got %s", p.peek().Kind)
	}
}

// ParseCreateTable tokenizes and parses sql as a single
// "CREATE TABLE <name> (<col_def>, ...)" statement.
func ParseCreateTable(sql string) (*CreateTableStmt, error) {
	tokens, err := sqltoken.Tokenize(sql)
	if err != nil {
		return nil, errors.Wrap(err, "sqlparse: tokenize")
	}
	p := &parser{tokens: tokens}
	if _, err := p.expect(sqltoken.Create); err != nil {
		return nil, err
	}
	if _, err := p.expect(sqltoken.Table); err != nil {
		return nil, err
	}
	stmt, err := p.parseCreateTableBody()
	if err != nil {
		return nil, err
	}
	if p.peek().Kind != sqltoken.EOF && p.peek().Kind != sqltoken.Semicolon {
		return nil, errors.Errorf("sqlparse: unexpected trailing token %s", p.peek().Kind)
	}
	return stmt, nil
}

// ParseCreateIndex tokenizes and parses sql as a single
// "CREATE INDEX <name> ON <table> (<column>, ...)" statement.
func ParseCreateIndex(sql string) (*CreateIndexStmt, error) {
	tokens, err := sqltoken.Tokenize(sql)
	if err != nil {
		return nil, errors.Wrap(err, "sqlparse: tokenize")
	}
	p := &parser{tokens: tokens}
	if _, err := p.expect(sqltoken.Create); err != nil {
		return nil, err
	}
	if _, err := p.expect(sqltoken.Index); err != nil {
		return nil, err
	}
	name, err := p.expect(sqltoken.Ident)
	if err != nil {
		return nil, errors.Wrap(err, "sqlparse: index name")
	}
	if _, err := p.expect(sqltoken.On); err != nil {
		return nil, err
	}
	table, err := p.expect(sqltoken.Ident)
	if err != nil {
		return nil, errors.Wrap(err, "sqlparse: index table")
	}
	if _, err := p.expect(sqltoken.LParen); err != nil {
		return nil, err
	}
	cols, err := p.parseColumnList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(sqltoken.RParen); err != nil {
		return nil, err
	}
	if p.peek().Kind != sqltoken.EOF && p.peek().Kind != sqltoken.Semicolon {
		return nil, errors.Errorf("sqlparse: unexpected trailing token %s", p.peek().Kind)
	}
	return &CreateIndexStmt{Index: name.Text, Table: table.Text, Columns: cols}, nil
}

func (p *parser) parseCreateTableBody() (*CreateTableStmt, error) {
	name, err := p.expect(sqltoken.Ident)
	if err != nil {
		return nil, errors.Wrap(err, "sqlparse: table name")
	}
	if _, err := p.expect(sqltoken.LParen); err != nil {
		return nil, err
	}

	var cols []ColumnDef
	for {
		col, err := p.parseColumnDef()
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
		if p.peek().Kind != sqltoken.Comma {
			break
		}
		p.advance()
	}
	if _, err := p.expect(sqltoken.RParen); err != nil {
		return nil, err
	}
	return &CreateTableStmt{Table: name.Text, Columns: cols}, nil
}

// parseColumnDef reads one "<name> <type> [(<precision>, ...)] [PRIMARY KEY]"
// column definition. The type's own parenthesized arguments (e.g.
// "decimal(10,2)") are skipped rather than split on, since a naive comma
// split would break on the embedded comma.
func (p *parser) parseColumnDef() (ColumnDef, error) {
	name, err := p.expect(sqltoken.Ident)
	if err != nil {
		return ColumnDef{}, errors.Wrap(err, "sqlparse: column name")
	}
	typ, err := p.expect(sqltoken.Ident)
	if err != nil {
		return ColumnDef{}, errors.Wrap(err, "sqlparse: column type")
	}

	if p.peek().Kind == sqltoken.LParen {
		p.advance()
		depth := 1
		for depth > 0 {
			switch p.peek().Kind {
			case sqltoken.LParen:
				depth++
			case sqltoken.RParen:
				depth--
			case sqltoken.EOF:
				return ColumnDef{}, errors.New("sqlparse: unterminated column type arguments")
			}
			p.advance()
		}
	}

	col := ColumnDef{Name: name.Text, Type: typ.Text}
	if p.checkNext(sqltoken.Primary, sqltoken.Key) {
		p.advance()
		p.advance()
		col.IsPrimaryKey = true
	}
	return col, nil
}
