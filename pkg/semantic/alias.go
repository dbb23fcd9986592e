package semantic

import (
	"strconv"
	"strings"
)

const (
	implicitAliasPrefix = "<gen:"
	implicitAliasSuffix = ">"
)

// ImplicitAliasGenerator hands out synthetic aliases for from elements the
// query did not name. Each interpretation owns its own generator.
type ImplicitAliasGenerator struct {
	next int
}

// Next returns a fresh alias of the form <gen:N>.
func (g *ImplicitAliasGenerator) Next() string {
	alias := implicitAliasPrefix + strconv.Itoa(g.next) + implicitAliasSuffix
	g.next++
	return alias
}

// IsImplicitAlias reports whether alias was produced by an
// ImplicitAliasGenerator. The lexer never produces '<' inside an
// identifier, so user aliases always classify false.
func IsImplicitAlias(alias string) bool {
	return strings.HasPrefix(alias, implicitAliasPrefix) && strings.HasSuffix(alias, implicitAliasSuffix)
}
