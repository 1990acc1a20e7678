package querydoc

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/odatasql/internal/queryir"
)

// BuildNode converts the generic decoded form of a node (nested maps and
// lists as produced by the YAML and CUE decoders) into a queryir.Node.
// field names the node's position for error messages.
func BuildNode(raw any, field string) (queryir.Node, error) {
	key, arg, err := singleKey(raw, field)
	if err != nil {
		return nil, err
	}
	field = field + "." + key

	if op, ok := queryir.ParseBinaryOperator(key); ok {
		return buildBinary(op, arg, field)
	}

	switch key {
	case "not", "negate":
		operand, err := BuildNode(arg, field)
		if err != nil {
			return nil, err
		}
		if key == "not" {
			return queryir.Not(operand), nil
		}
		return queryir.Negate(operand), nil
	case "any", "all":
		return buildQuantifier(key, arg, field)
	case "property", "collection", "navigation", "collectionnavigation", "open", "opencollection":
		return buildAccess(key, arg, field)
	case "cast":
		return buildCast(arg, field)
	case "var":
		name, err := stringArg(arg, field)
		if err != nil {
			return nil, err
		}
		return &queryir.EntityRangeVariableReference{Name: name}, nil
	case "element":
		name, err := stringArg(arg, field)
		if err != nil {
			return nil, err
		}
		return &queryir.NonentityRangeVariableReference{Name: name}, nil
	case "convert":
		source, err := BuildNode(arg, field)
		if err != nil {
			return nil, err
		}
		return &queryir.Convert{Source: source}, nil
	case "call":
		return buildCall(arg, field)
	case "param":
		m, err := mapArg(arg, field)
		if err != nil {
			return nil, err
		}
		name, err := stringArg(m["name"], field+".name")
		if err != nil {
			return nil, err
		}
		value, err := BuildNode(m["value"], field+".value")
		if err != nil {
			return nil, err
		}
		return &queryir.NamedFunctionParameter{Name: name, Value: value}, nil
	case "alias":
		alias, err := stringArg(arg, field)
		if err != nil {
			return nil, err
		}
		return &queryir.ParameterAlias{Alias: alias}, nil
	case "term":
		text, err := textArg(arg, field)
		if err != nil {
			return nil, err
		}
		return &queryir.SearchTerm{Text: text}, nil
	default:
		return buildLiteral(key, arg, field)
	}
}

func buildBinary(op queryir.BinaryOperatorKind, arg any, field string) (queryir.Node, error) {
	operands, ok := arg.([]any)
	if !ok {
		return nil, fieldError(field, "expected a list of operands, got %T", arg)
	}

	// and/or fold left over any number of operands
	variadic := op == queryir.OpAnd || op == queryir.OpOr
	if len(operands) < 2 || (!variadic && len(operands) != 2) {
		return nil, fieldError(field, "expected 2 operands, got %d", len(operands))
	}

	node, err := BuildNode(operands[0], indexField(field, 0))
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(operands); i++ {
		right, err := BuildNode(operands[i], indexField(field, i))
		if err != nil {
			return nil, err
		}
		node = queryir.Binary(op, node, right)
	}
	return node, nil
}

func buildQuantifier(key string, arg any, field string) (queryir.Node, error) {
	m, err := mapArg(arg, field)
	if err != nil {
		return nil, err
	}
	source, err := BuildNode(m["source"], field+".source")
	if err != nil {
		return nil, err
	}
	rangeVar, err := stringArg(m["var"], field+".var")
	if err != nil {
		return nil, err
	}
	body, err := BuildNode(m["body"], field+".body")
	if err != nil {
		return nil, err
	}

	if key == "all" {
		return queryir.AllOf(source, rangeVar, body), nil
	}
	return queryir.AnyOf(source, rangeVar, body), nil
}

// buildAccess accepts either a slash-separated path on the implicit range
// variable ("Address/City") or {of: <node>, name: <segment>}.
func buildAccess(key string, arg any, field string) (queryir.Node, error) {
	var source queryir.Node
	var names []string

	switch v := arg.(type) {
	case string:
		source = queryir.It()
		for _, part := range strings.Split(v, "/") {
			part = norm.NFC.String(strings.TrimSpace(part))
			if part == "" {
				return nil, fieldError(field, "empty path segment in %q", v)
			}
			names = append(names, part)
		}
	case map[string]any:
		of, err := BuildNode(v["of"], field+".of")
		if err != nil {
			return nil, err
		}
		name, err := stringArg(v["name"], field+".name")
		if err != nil {
			return nil, err
		}
		source = of
		names = []string{name}
	default:
		return nil, fieldError(field, "expected a path or {of, name}, got %T", arg)
	}

	// intermediate segments are single-valued properties; the kind applies
	// to the last one
	node := source
	for _, name := range names[:len(names)-1] {
		node = &queryir.SingleValuePropertyAccess{Source: node, Property: name}
	}
	last := names[len(names)-1]

	switch key {
	case "collection":
		return &queryir.CollectionPropertyAccess{Source: node, Property: last}, nil
	case "navigation":
		return &queryir.SingleNavigation{Source: node, NavigationProperty: last}, nil
	case "collectionnavigation":
		return &queryir.CollectionNavigation{Source: node, NavigationProperty: last}, nil
	case "open":
		return &queryir.SingleValueOpenPropertyAccess{Source: node, Name: last}, nil
	case "opencollection":
		return &queryir.CollectionOpenPropertyAccess{Source: node, Name: last}, nil
	default:
		return &queryir.SingleValuePropertyAccess{Source: node, Property: last}, nil
	}
}

func buildCast(arg any, field string) (queryir.Node, error) {
	m, err := mapArg(arg, field)
	if err != nil {
		return nil, err
	}

	source := queryir.It()
	if of, ok := m["of"]; ok {
		if source, err = BuildNode(of, field+".of"); err != nil {
			return nil, err
		}
	}
	typeName, err := stringArg(m["type"], field+".type")
	if err != nil {
		return nil, err
	}

	kind := "entity"
	if k, ok := m["kind"]; ok {
		if kind, err = stringArg(k, field+".kind"); err != nil {
			return nil, err
		}
	}

	switch kind {
	case "entity":
		return &queryir.SingleEntityCast{Source: source, Type: queryir.EntityType(typeName)}, nil
	case "entitycollection":
		return &queryir.EntityCollectionCast{Source: source, Type: queryir.EntityType(typeName)}, nil
	case "value":
		return &queryir.SingleValueCast{Source: source, Type: queryir.ComplexType(typeName)}, nil
	case "collection":
		return &queryir.CollectionPropertyCast{Source: source, Type: queryir.CollectionOf(queryir.ComplexType(typeName))}, nil
	default:
		return nil, fieldError(field+".kind", "unknown cast kind %q", kind)
	}
}

func buildCall(arg any, field string) (queryir.Node, error) {
	m, err := mapArg(arg, field)
	if err != nil {
		return nil, err
	}

	var call queryir.Call
	if call.Name, err = stringArg(m["name"], field+".name"); err != nil {
		return nil, err
	}
	if of, ok := m["of"]; ok {
		if call.Source, err = BuildNode(of, field+".of"); err != nil {
			return nil, err
		}
	}
	if rawArgs, ok := m["args"]; ok {
		list, ok := rawArgs.([]any)
		if !ok {
			return nil, fieldError(field+".args", "expected a list, got %T", rawArgs)
		}
		for i, a := range list {
			param, err := BuildNode(a, indexField(field+".args", i))
			if err != nil {
				return nil, err
			}
			call.Parameters = append(call.Parameters, param)
		}
	}

	returns := "value"
	if r, ok := m["returns"]; ok {
		if returns, err = stringArg(r, field+".returns"); err != nil {
			return nil, err
		}
	}

	switch returns {
	case "value":
		return &queryir.SingleValueFunctionCall{Call: call}, nil
	case "entity":
		return &queryir.SingleEntityFunctionCall{Call: call}, nil
	case "collection":
		return &queryir.CollectionFunctionCall{Call: call}, nil
	case "entitycollection":
		return &queryir.EntityCollectionFunctionCall{Call: call}, nil
	default:
		return nil, fieldError(field+".returns", "unknown return kind %q", returns)
	}
}

func buildLiteral(key string, arg any, field string) (queryir.Node, error) {
	switch key {
	case "null":
		return queryir.Null(), nil
	case "string":
		s, err := textArg(arg, field)
		if err != nil {
			return nil, err
		}
		return queryir.StringValue(s), nil
	case "int":
		n, err := intArg(arg, field)
		if err != nil {
			return nil, err
		}
		if n < math.MinInt32 || n > math.MaxInt32 {
			return queryir.Literal(strconv.FormatInt(n, 10), queryir.Int64), nil
		}
		return queryir.IntValue(int32(n)), nil
	case "bool":
		b, ok := arg.(bool)
		if !ok {
			return nil, fieldError(field, "expected a boolean, got %T", arg)
		}
		return queryir.BoolValue(b), nil
	case "double", "decimal":
		text, err := numberText(arg, field)
		if err != nil {
			return nil, err
		}
		if key == "decimal" {
			return queryir.Literal(text, queryir.Decimal), nil
		}
		return queryir.Literal(text, queryir.Double), nil
	case "guid":
		text, err := textArg(arg, field)
		if err != nil {
			return nil, err
		}
		id, err := uuid.Parse(text)
		if err != nil {
			return nil, fieldError(field, "invalid guid %q: %v", text, err)
		}
		return &queryir.Constant{Value: id, LiteralText: text, Type: queryir.Guid}, nil
	case "date":
		text, err := textArg(arg, field)
		if err != nil {
			return nil, err
		}
		return queryir.Literal(text, queryir.Date), nil
	case "datetimeoffset":
		text, err := textArg(arg, field)
		if err != nil {
			return nil, err
		}
		return queryir.Literal(text, queryir.DateTimeOffset), nil
	case "enum":
		return buildEnum(arg, field)
	default:
		return nil, fieldError(field, "unknown node kind %q", key)
	}
}

// buildEnum reads {type, value, flags, members: {Name: value}}.
func buildEnum(arg any, field string) (queryir.Node, error) {
	m, err := mapArg(arg, field)
	if err != nil {
		return nil, err
	}
	typeName, err := stringArg(m["type"], field+".type")
	if err != nil {
		return nil, err
	}

	var raw string
	switch v := m["value"].(type) {
	case string:
		raw = v
	default:
		n, err := intArg(v, field+".value")
		if err != nil {
			return nil, err
		}
		raw = strconv.FormatInt(n, 10)
	}

	flags, _ := m["flags"].(bool)

	var members []queryir.EnumMember
	if rawMembers, ok := m["members"]; ok {
		mm, err := mapArg(rawMembers, field+".members")
		if err != nil {
			return nil, err
		}
		for name, value := range mm {
			n, err := intArg(value, field+".members."+name)
			if err != nil {
				return nil, err
			}
			members = append(members, queryir.EnumMember{Name: norm.NFC.String(name), Value: n})
		}
		sort.Slice(members, func(i, j int) bool {
			if members[i].Value != members[j].Value {
				return members[i].Value < members[j].Value
			}
			return members[i].Name < members[j].Name
		})
	}

	return queryir.EnumLiteral(queryir.EnumType(typeName, flags, members...), raw), nil
}

// singleKey unpacks a one-entry map.
func singleKey(raw any, field string) (string, any, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		if raw == nil {
			return "", nil, fieldError(field, "node is required")
		}
		return "", nil, fieldError(field, "expected a single-key map, got %T", raw)
	}
	if len(m) != 1 {
		return "", nil, fieldError(field, "expected exactly one node kind, got %d keys", len(m))
	}
	for k, v := range m {
		return k, v, nil
	}
	panic("unreachable")
}

func mapArg(arg any, field string) (map[string]any, error) {
	m, ok := arg.(map[string]any)
	if !ok {
		return nil, fieldError(field, "expected a map, got %T", arg)
	}
	return m, nil
}

// stringArg reads an identifier and normalizes it to NFC.
func stringArg(arg any, field string) (string, error) {
	s, ok := arg.(string)
	if !ok || s == "" {
		return "", fieldError(field, "expected a non-empty string")
	}
	return norm.NFC.String(s), nil
}

// textArg reads literal text, which is kept exactly as written.
func textArg(arg any, field string) (string, error) {
	s, ok := arg.(string)
	if !ok {
		return "", fieldError(field, "expected a string, got %T", arg)
	}
	return s, nil
}

func intArg(arg any, field string) (int64, error) {
	switch v := arg.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case uint64:
		if v > math.MaxInt64 {
			return 0, fieldError(field, "integer %d out of range", v)
		}
		return int64(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fieldError(field, "expected an integer, got %v", v)
		}
		return int64(v), nil
	default:
		return 0, fieldError(field, "expected an integer, got %T", arg)
	}
}

// numberText keeps quoted numbers verbatim so their lexical form survives.
func numberText(arg any, field string) (string, error) {
	switch v := arg.(type) {
	case string:
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			return "", fieldError(field, "invalid number %q", v)
		}
		return v, nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		return "", fieldError(field, "expected a number, got %T", arg)
	}
}

func indexField(field string, i int) string {
	return fmt.Sprintf("%s[%d]", field, i)
}
