// Package semantic turns a parsed query into a resolved semantic query model.
//
// Interpretation happens in two passes over one statement. The first pass,
// driven by FromClauseProcessor as a core.Listener, opens one scope per query
// spec and builds its from clause: roots, cross joins, explicit joins and
// their ON predicates. The second pass resolves the select, where, group by,
// having and order by expressions against the finished scopes.
//
// Name resolution goes through the PathResolver family. A dotted path is
// resolved by trying, in order:
//
//  1. the first part as a from-element alias, visible through the scope chain
//  2. the whole path as a bare alias
//  3. the first part as an attribute exposed by exactly one from element
//
// Intermediate attributes of a path are navigated through implicit left joins
// that are created on demand and reused within their scope. When no
// resolution applies the caller tries entity names, fully qualified class
// names and enum constants before reporting an UnresolvedReferenceError.
//
// An Interpretation is single-use and not safe for concurrent use. The
// metamodel it reads is shared and read-only.
package semantic
