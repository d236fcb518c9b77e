// Package query turns the raw where/sort/select/skip/limit/count directives
// supplied by clients into a validated plan for the document store. Parsing
// never touches the store; malformed input is rejected up front.
package query

import (
	"encoding/json"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NoLimit disables the result cap on a listing.
const NoLimit int64 = -1

// Params carries the raw, untrusted directive strings from the URL.
type Params struct {
	Where  string
	Sort   string
	Select string
	Skip   string
	Limit  string
	Count  string
}

// Plan is the validated, store-ready form of a listing request.
type Plan struct {
	Filter     bson.M
	Sort       bson.D
	Projection bson.M
	Skip       int64
	Limit      int64
	CountOnly  bool
}

// DirectiveError reports a malformed where/sort/select value.
type DirectiveError struct {
	Directive string
}

func (e *DirectiveError) Error() string {
	return "invalid '" + e.Directive + "' parameter: must be valid JSON"
}

// PaginationError reports a skip/limit value that is not a non-negative integer.
type PaginationError struct {
	Directive string
}

func (e *PaginationError) Error() string {
	return "invalid '" + e.Directive + "' parameter: must be a non-negative integer"
}

// Parse validates all directives in p. defaultLimit applies when no limit
// directive is present; pass NoLimit for unbounded listings. In count mode
// only the filter matters: sort, select, skip and limit are ignored without
// being validated.
func Parse(p Params, defaultLimit int64) (*Plan, error) {
	plan := &Plan{
		Filter: bson.M{},
		Limit:  defaultLimit,
	}

	if p.Where != "" {
		var filter map[string]interface{}
		if err := json.Unmarshal([]byte(p.Where), &filter); err != nil {
			return nil, &DirectiveError{Directive: "where"}
		}
		plan.Filter = normalizeIDs(filter)
	}

	if p.Count == "true" {
		plan.CountOnly = true
		return plan, nil
	}

	if p.Sort != "" {
		sort, err := parseSort(p.Sort)
		if err != nil {
			return nil, err
		}
		plan.Sort = sort
	}

	if p.Select != "" {
		projection, err := ParseProjection(p.Select)
		if err != nil {
			return nil, err
		}
		plan.Projection = projection
	}

	if p.Skip != "" {
		n, err := strconv.ParseInt(p.Skip, 10, 64)
		if err != nil || n < 0 {
			return nil, &PaginationError{Directive: "skip"}
		}
		plan.Skip = n
	}

	if p.Limit != "" {
		n, err := strconv.ParseInt(p.Limit, 10, 64)
		if err != nil || n < 0 {
			return nil, &PaginationError{Directive: "limit"}
		}
		plan.Limit = n
	}

	return plan, nil
}

// ParseProjection validates a select directive: either a field→include/exclude
// object or a list of field names to include.
func ParseProjection(s string) (bson.M, error) {
	var asMap map[string]interface{}
	if err := json.Unmarshal([]byte(s), &asMap); err == nil {
		projection := bson.M{}
		for field, v := range asMap {
			projection[field] = v
		}
		return projection, nil
	}

	var asList []string
	if err := json.Unmarshal([]byte(s), &asList); err == nil {
		projection := bson.M{}
		for _, field := range asList {
			projection[field] = 1
		}
		return projection, nil
	}

	return nil, &DirectiveError{Directive: "select"}
}

func parseSort(s string) (bson.D, error) {
	var asMap map[string]interface{}
	if err := json.Unmarshal([]byte(s), &asMap); err != nil {
		return nil, &DirectiveError{Directive: "sort"}
	}

	sort := bson.D{}
	for field, v := range asMap {
		switch dir := v.(type) {
		case float64:
			switch dir {
			case 1:
				sort = append(sort, bson.E{Key: field, Value: 1})
			case -1:
				sort = append(sort, bson.E{Key: field, Value: -1})
			default:
				return nil, &DirectiveError{Directive: "sort"}
			}
		case string:
			switch dir {
			case "asc", "ascending":
				sort = append(sort, bson.E{Key: field, Value: 1})
			case "desc", "descending":
				sort = append(sort, bson.E{Key: field, Value: -1})
			default:
				return nil, &DirectiveError{Directive: "sort"}
			}
		default:
			return nil, &DirectiveError{Directive: "sort"}
		}
	}
	return sort, nil
}

// normalizeIDs rewrites hex strings under _id (directly or inside $in/$nin
// lists) into ObjectIDs so string-form ids match stored documents.
func normalizeIDs(filter map[string]interface{}) bson.M {
	out := bson.M{}
	for k, v := range filter {
		if k != "_id" {
			out[k] = v
			continue
		}
		switch val := v.(type) {
		case string:
			out[k] = toObjectID(val)
		case map[string]interface{}:
			ops := bson.M{}
			for op, opVal := range val {
				if list, ok := opVal.([]interface{}); ok && (op == "$in" || op == "$nin") {
					ids := make([]interface{}, 0, len(list))
					for _, item := range list {
						if s, ok := item.(string); ok {
							ids = append(ids, toObjectID(s))
						} else {
							ids = append(ids, item)
						}
					}
					ops[op] = ids
				} else {
					ops[op] = opVal
				}
			}
			out[k] = ops
		default:
			out[k] = v
		}
	}
	return out
}

func toObjectID(s string) interface{} {
	if oid, err := primitive.ObjectIDFromHex(s); err == nil {
		return oid
	}
	return s
}
