package db

import (
	"strings"
)

// PostFilter narrows the public feed. Query and the detailed fields are
// mutually exclusive: when Query is set the detailed fields are ignored.
type PostFilter struct {
	// Query enables free-text mode across title, description, owner
	// name, owner bio and locations
	Query string `json:"query,omitempty" form:"q"`

	// Detailed mode: each provided field contributes one AND condition
	Title       string   `json:"title,omitempty" form:"title"`
	Description string   `json:"description,omitempty" form:"description"`
	Locations   []string `json:"locations,omitempty" form:"locations"`
	Needs       []string `json:"needs,omitempty" form:"needs"`
}

// condition is one SQL predicate with its bind arguments
type condition struct {
	expr string
	args []interface{}
}

// likeFuzzy builds a case- and accent-insensitive substring predicate
// against the given column.
func likeFuzzy(column, value string) condition {
	return condition{
		expr: "unaccent(lower(" + column + ")) LIKE unaccent(?)",
		args: []interface{}{"%" + strings.ToLower(value) + "%"},
	}
}

// arrayOverlaps builds a predicate that is true when the JSON array in
// column shares at least one element with values, comparing
// case-insensitively on both sides.
func arrayOverlaps(column string, values []string) condition {
	placeholders := make([]string, len(values))
	args := make([]interface{}, len(values))
	for i, v := range values {
		placeholders[i] = "?"
		args[i] = strings.ToLower(v)
	}
	return condition{
		expr: "EXISTS (SELECT 1 FROM json_each(" + column + ") WHERE lower(json_each.value) IN (" + strings.Join(placeholders, ", ") + "))",
		args: args,
	}
}

// freeTextConditions builds the single OR group used in free-text mode.
// The needs overlap is only included when the query string is itself a
// recognized need category.
func freeTextConditions(query string) []condition {
	query = strings.ToLower(query)

	conditions := []condition{
		likeFuzzy("p.description", query),
		likeFuzzy("p.title", query),
		likeFuzzy("u.name", query),
		likeFuzzy("u.bio", query),
		arrayOverlaps("p.locations", []string{query}),
	}

	if IsNeedCategory(query) {
		conditions = append(conditions, arrayOverlaps("p.needs", []string{query}))
	}

	exprs := make([]string, len(conditions))
	var args []interface{}
	for i, c := range conditions {
		exprs[i] = c.expr
		args = append(args, c.args...)
	}

	return []condition{{
		expr: "(" + strings.Join(exprs, " OR ") + ")",
		args: args,
	}}
}

// detailedConditions builds one AND condition per provided field.
// An empty filter yields no conditions at all.
func detailedConditions(filter *PostFilter) []condition {
	var conditions []condition

	if filter.Title != "" {
		conditions = append(conditions, likeFuzzy("p.title", filter.Title))
	}
	if filter.Description != "" {
		conditions = append(conditions, likeFuzzy("p.description", filter.Description))
	}
	if len(filter.Locations) > 0 {
		conditions = append(conditions, arrayOverlaps("p.locations", filter.Locations))
	}
	if len(filter.Needs) > 0 {
		conditions = append(conditions, arrayOverlaps("p.needs", filter.Needs))
	}

	return conditions
}

// filterConditions turns a PostFilter into SQL predicates. A nil filter
// applies none. A detailed filter with no usable field is an unexpected
// state: it is logged for investigation and degrades to "no filter".
func filterConditions(filter *PostFilter) []condition {
	if filter == nil {
		return nil
	}

	if filter.Query != "" {
		return freeTextConditions(filter.Query)
	}

	conditions := detailedConditions(filter)
	if len(conditions) == 0 {
		if log != nil {
			log.Warn("Post filter carried no usable conditions, listing all active posts")
		}
		return nil
	}

	return conditions
}
