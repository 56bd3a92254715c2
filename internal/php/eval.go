package php

import (
	stderrors "errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrClassNotFound is returned by a ClassFinder for names it cannot locate
var ErrClassNotFound = stderrors.New("class not found")

// ClassFinder locates class declarations by fully-qualified name
type ClassFinder interface {
	FindClass(fqcn string) (*Class, error)
}

// globalConstants are the predefined constants folded during evaluation
var globalConstants = map[string]any{
	"PHP_INT_MAX":       int64(math.MaxInt64),
	"PHP_INT_MIN":       int64(math.MinInt64),
	"PHP_INT_SIZE":      int64(8),
	"PHP_FLOAT_EPSILON": 2.220446049250313e-16,
	"PHP_FLOAT_MAX":     math.MaxFloat64,
	"PHP_FLOAT_MIN":     2.2250738585072014e-308,
	"PHP_FLOAT_DIG":     int64(15),
	"PHP_EOL":           "\n",
	"M_PI":              math.Pi,
	"M_E":               math.E,
}

// precedence of binary operators, higher binds tighter
var precedence = map[string]int{
	"??": 1,
	"||": 2,
	"&&": 3,
	"|":  4,
	"^":  5,
	"&":  6,
	".":  7,
	"<<": 8,
	">>": 8,
	"+":  9,
	"-":  9,
	"*":  10,
	"/":  10,
	"%":  10,
	"**": 11,
}

func rightAssociative(op string) bool {
	return op == "**" || op == "??"
}

// Evaluator folds constant expressions the way PHP reflection reports
// default values. Class constants are looked up through the finder;
// constants of classes it cannot locate, and enum cases, stay symbolic.
type Evaluator struct {
	classes ClassFinder
	active  map[string]bool
}

// NewEvaluator creates an evaluator backed by the given class finder
func NewEvaluator(classes ClassFinder) *Evaluator {
	return &Evaluator{classes: classes, active: make(map[string]bool)}
}

// Eval evaluates expr in the scope of class, which may be nil for free expressions
func (e *Evaluator) Eval(expr *Expr, class *Class) (any, error) {
	return e.evalNode(buildTree(expr), class)
}

// EvalString parses and evaluates a constant expression
func (e *Evaluator) EvalString(source string, class *Class) (any, error) {
	name := "<expr>"
	if class != nil {
		name = class.FQCN()
	}
	expr, err := ParseExpr(name, source)
	if err != nil {
		return nil, err
	}
	return e.Eval(expr, class)
}

// ClassConstant resolves Class::NAME, searching parents and interfaces
func (e *Evaluator) ClassConstant(fqcn, name string) (any, error) {
	if e.classes == nil {
		return ConstRef{Class: fqcn, Name: name}, nil
	}
	class, err := e.classes.FindClass(fqcn)
	if stderrors.Is(err, ErrClassNotFound) {
		return ConstRef{Class: fqcn, Name: name}, nil
	}
	if err != nil {
		return nil, err
	}
	if class.Kind == KindEnum && class.HasCase(name) {
		return ConstRef{Class: class.FQCN(), Name: name}, nil
	}

	owner, cst, err := e.findConstant(class, name, make(map[string]bool))
	if err != nil {
		return nil, err
	}
	if cst == nil {
		return ConstRef{Class: class.FQCN(), Name: name}, nil
	}

	key := strings.ToLower(owner.FQCN()) + "::" + name
	if e.active[key] {
		return nil, fmt.Errorf("cyclic definition of constant %s::%s", owner.FQCN(), name)
	}
	e.active[key] = true
	defer delete(e.active, key)

	return e.EvalString(cst.Source, owner)
}

func (e *Evaluator) findConstant(class *Class, name string, seen map[string]bool) (*Class, *Constant, error) {
	key := strings.ToLower(class.FQCN())
	if seen[key] {
		return nil, nil, nil
	}
	seen[key] = true

	if cst, ok := class.Constant(name); ok {
		return class, cst, nil
	}
	for _, ancestor := range class.Ancestors() {
		next, err := e.classes.FindClass(ancestor)
		if stderrors.Is(err, ErrClassNotFound) {
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		if owner, cst, err := e.findConstant(next, name, seen); err != nil || cst != nil {
			return owner, cst, err
		}
	}
	return nil, nil, nil
}

type node struct {
	op          string
	left, right *node
	leaf        *Unary
}

// buildTree applies operator precedence to the flat operand list
func buildTree(expr *Expr) *node {
	operands := make([]*node, 0, len(expr.Ops)+1)
	operands = append(operands, &node{leaf: expr.Left})
	ops := make([]string, 0, len(expr.Ops))
	for _, b := range expr.Ops {
		ops = append(ops, b.Op)
		operands = append(operands, &node{leaf: b.Right})
	}

	pos := 0
	// operand i+1 follows ops[i]
	var walk func(minPrec int) *node
	walk = func(minPrec int) *node {
		left := operands[pos]
		for pos < len(ops) && precedence[ops[pos]] >= minPrec {
			op := ops[pos]
			next := precedence[op] + 1
			if rightAssociative(op) {
				next = precedence[op]
			}
			pos++
			right := walk(next)
			left = &node{op: op, left: left, right: right}
		}
		return left
	}
	return walk(0)
}

func (e *Evaluator) evalNode(n *node, class *Class) (any, error) {
	if n.leaf != nil {
		return e.evalUnary(n.leaf, class)
	}

	left, err := e.evalNode(n.left, class)
	if err != nil {
		return nil, err
	}
	switch n.op {
	case "??":
		if left != nil {
			return left, nil
		}
		return e.evalNode(n.right, class)
	case "&&":
		if !truthy(left) {
			return false, nil
		}
	case "||":
		if truthy(left) {
			return true, nil
		}
	}

	right, err := e.evalNode(n.right, class)
	if err != nil {
		return nil, err
	}
	return binary(n.op, left, right)
}

func (e *Evaluator) evalUnary(u *Unary, class *Class) (any, error) {
	v, err := e.evalPrimary(u.Operand, class)
	if err != nil {
		return nil, err
	}

	switch u.Op {
	case "":
		return v, nil
	case "!":
		return !truthy(v), nil
	case "~":
		i, err := toInt(v)
		if err != nil {
			return nil, err
		}
		return ^i, nil
	}

	num, err := toNumber(v)
	if err != nil {
		return nil, err
	}
	if u.Op == "+" {
		return num, nil
	}
	switch n := num.(type) {
	case int64:
		if n == math.MinInt64 {
			return -float64(n), nil
		}
		return -n, nil
	default:
		return -n.(float64), nil
	}
}

func (e *Evaluator) evalPrimary(p *Primary, class *Class) (any, error) {
	switch {
	case p.Paren != nil:
		return e.Eval(p.Paren, class)
	case p.Array != nil:
		return e.evalArray(p.Array, class)
	case p.New != nil:
		obj := Object{Class: scopeOf(class).Resolve(p.New.Class)}
		for _, arg := range p.New.Args {
			v, err := e.Eval(arg, class)
			if err != nil {
				return nil, err
			}
			obj.Args = append(obj.Args, v)
		}
		return obj, nil
	case p.String != nil:
		return DecodeString(*p.String)
	case p.Float != nil:
		return strconv.ParseFloat(strings.ReplaceAll(*p.Float, "_", ""), 64)
	case p.Int != nil:
		return parseInt(*p.Int)
	case p.ClassRef != nil:
		return e.evalClassRef(p.ClassRef, class)
	}
	return nil, fmt.Errorf("empty expression")
}

func (e *Evaluator) evalClassRef(ref *ClassRef, class *Class) (any, error) {
	if ref.Member == "" {
		name := strings.TrimPrefix(ref.Name, `\`)
		switch strings.ToLower(name) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		case "null":
			return nil, nil
		}
		if v, ok := globalConstants[name]; ok {
			return v, nil
		}
		return ConstRef{Name: name}, nil
	}

	target, err := e.classTarget(ref.Name, class)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(ref.Member, "class") {
		return target, nil
	}
	return e.ClassConstant(target, ref.Member)
}

// classTarget resolves the class part of Name::member
func (e *Evaluator) classTarget(name string, class *Class) (string, error) {
	switch strings.ToLower(name) {
	case "self", "static":
		if class == nil {
			return "", fmt.Errorf("%s used outside of a class", name)
		}
		return class.FQCN(), nil
	case "parent":
		if class == nil {
			return "", fmt.Errorf("parent used outside of a class")
		}
		parent, ok := class.Parent()
		if !ok {
			return "", fmt.Errorf("%s has no parent class", class.FQCN())
		}
		return parent, nil
	}
	return scopeOf(class).Resolve(name), nil
}

func (e *Evaluator) evalArray(a *Array, class *Class) (any, error) {
	var entries KeyedArray
	index := map[any]int{}
	nextKey := int64(0)

	put := func(key, value any) {
		if i, ok := index[key]; ok {
			entries[i].Value = value
		} else {
			index[key] = len(entries)
			entries = append(entries, ArrayEntry{Key: key, Value: value})
		}
		if k, ok := key.(int64); ok && k >= nextKey {
			nextKey = k + 1
		}
	}

	for _, item := range a.Items() {
		first, err := e.Eval(item.First, class)
		if err != nil {
			return nil, err
		}

		switch {
		case item.Spread:
			switch spread := first.(type) {
			case []any:
				for _, v := range spread {
					put(nextKey, v)
				}
			case KeyedArray:
				for _, entry := range spread {
					if _, isInt := entry.Key.(int64); isInt {
						put(nextKey, entry.Value)
					} else {
						put(entry.Key, entry.Value)
					}
				}
			default:
				return nil, fmt.Errorf("cannot unpack %T", first)
			}

		case item.Value != nil:
			key, err := arrayKey(first)
			if err != nil {
				return nil, err
			}
			value, err := e.Eval(item.Value, class)
			if err != nil {
				return nil, err
			}
			put(key, value)

		default:
			put(nextKey, first)
		}
	}

	if list, ok := asList(entries); ok {
		return list, nil
	}
	return entries, nil
}

// asList returns the values when the keys are exactly 0..n-1 in order
func asList(entries KeyedArray) ([]any, bool) {
	list := make([]any, 0, len(entries))
	for i, entry := range entries {
		if k, ok := entry.Key.(int64); !ok || k != int64(i) {
			return nil, false
		}
		list = append(list, entry.Value)
	}
	return list, true
}

func arrayKey(v any) (any, error) {
	switch k := v.(type) {
	case int64:
		return k, nil
	case string:
		if i, err := strconv.ParseInt(k, 10, 64); err == nil && strconv.FormatInt(i, 10) == k {
			return i, nil
		}
		return k, nil
	case bool:
		if k {
			return int64(1), nil
		}
		return int64(0), nil
	case float64:
		return int64(k), nil
	case nil:
		return "", nil
	}
	return nil, fmt.Errorf("illegal array key type %T", v)
}

func scopeOf(class *Class) *Scope {
	if class == nil || class.Scope == nil {
		return NewScope("")
	}
	return class.Scope
}

func parseInt(lit string) (any, error) {
	clean := strings.ReplaceAll(lit, "_", "")
	if len(clean) > 1 && clean[0] == '0' && clean[1] >= '0' && clean[1] <= '9' {
		clean = "0o" + clean[1:]
	}
	i, err := strconv.ParseInt(clean, 0, 64)
	if err == nil {
		return i, nil
	}
	// integer overflow turns into a float
	if u, uerr := strconv.ParseUint(clean, 0, 64); uerr == nil {
		return float64(u), nil
	}
	if f, ferr := strconv.ParseFloat(clean, 64); ferr == nil {
		return f, nil
	}
	return nil, fmt.Errorf("invalid integer literal %q", lit)
}

// DecodeString unquotes a single- or double-quoted PHP string literal
func DecodeString(lit string) (string, error) {
	if len(lit) < 2 {
		return "", fmt.Errorf("invalid string literal %q", lit)
	}
	quote, body := lit[0], lit[1:len(lit)-1]

	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 == len(body) {
			sb.WriteByte(c)
			continue
		}
		next := body[i+1]
		if quote == '\'' {
			if next == '\'' || next == '\\' {
				sb.WriteByte(next)
				i++
			} else {
				sb.WriteByte(c)
			}
			continue
		}

		switch next {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case 'v':
			sb.WriteByte('\v')
		case 'e':
			sb.WriteByte(0x1b)
		case 'f':
			sb.WriteByte('\f')
		case '\\', '$', '"':
			sb.WriteByte(next)
		case 'x':
			n, width := hexPrefix(body[i+2:], 2)
			if width == 0 {
				sb.WriteString(`\x`)
			} else {
				sb.WriteByte(byte(n))
				i += width
			}
		case 'u':
			end := strings.IndexByte(body[i:], '}')
			if i+2 < len(body) && body[i+2] == '{' && end > 0 {
				r, err := strconv.ParseUint(body[i+3:i+end], 16, 32)
				if err != nil {
					return "", fmt.Errorf("invalid unicode escape in %q", lit)
				}
				sb.WriteRune(rune(r))
				i += end - 1
			} else {
				sb.WriteString(`\u`)
			}
		default:
			if next >= '0' && next <= '7' {
				n, width := octPrefix(body[i+1:])
				sb.WriteByte(byte(n))
				i += width - 1
			} else {
				sb.WriteByte(c)
				sb.WriteByte(next)
			}
		}
		i++
	}
	return sb.String(), nil
}

func hexPrefix(s string, max int) (int, int) {
	n, width := 0, 0
	for width < max && width < len(s) {
		d, err := strconv.ParseUint(s[width:width+1], 16, 8)
		if err != nil {
			break
		}
		n = n*16 + int(d)
		width++
	}
	return n, width
}

func octPrefix(s string) (int, int) {
	n, width := 0, 0
	for width < 3 && width < len(s) && s[width] >= '0' && s[width] <= '7' {
		n = n*8 + int(s[width]-'0')
		width++
	}
	return n, width
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case int64:
		return t != 0
	case float64:
		return t != 0
	case string:
		return t != "" && t != "0"
	case []any:
		return len(t) > 0
	case KeyedArray:
		return len(t) > 0
	}
	return true
}

func toNumber(v any) (any, error) {
	switch t := v.(type) {
	case int64, float64:
		return t, nil
	case bool:
		if t {
			return int64(1), nil
		}
		return int64(0), nil
	case nil:
		return int64(0), nil
	case string:
		if i, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64); err == nil {
			return i, nil
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return f, nil
		}
	}
	return nil, fmt.Errorf("unsupported operand type %T", v)
}

func toInt(v any) (int64, error) {
	n, err := toNumber(v)
	if err != nil {
		return 0, err
	}
	if f, ok := n.(float64); ok {
		return int64(f), nil
	}
	return n.(int64), nil
}

func toFloat(n any) float64 {
	if i, ok := n.(int64); ok {
		return float64(i)
	}
	return n.(float64)
}

// ToString converts a scalar the way PHP string conversion does
func ToString(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case nil:
		return "", nil
	case bool:
		if t {
			return "1", nil
		}
		return "", nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case float64:
		return strings.Replace(strconv.FormatFloat(t, 'g', -1, 64), "e+", "E+", 1), nil
	}
	return "", fmt.Errorf("cannot convert %T to string", v)
}

func binary(op string, left, right any) (any, error) {
	switch op {
	case "&&", "||":
		return truthy(right), nil
	case ".":
		l, err := ToString(left)
		if err != nil {
			return nil, err
		}
		r, err := ToString(right)
		if err != nil {
			return nil, err
		}
		return l + r, nil
	case "|", "&", "^", "<<", ">>":
		l, err := toInt(left)
		if err != nil {
			return nil, err
		}
		r, err := toInt(right)
		if err != nil {
			return nil, err
		}
		switch op {
		case "|":
			return l | r, nil
		case "&":
			return l & r, nil
		case "^":
			return l ^ r, nil
		case "<<":
			if r < 0 {
				return nil, fmt.Errorf("bit shift by negative number")
			}
			return l << uint(r), nil
		default:
			if r < 0 {
				return nil, fmt.Errorf("bit shift by negative number")
			}
			return l >> uint(r), nil
		}
	}

	if l, lok := left.([]any); lok && op == "+" {
		if r, rok := right.([]any); rok {
			// array union keeps the left operand's keys
			if len(r) <= len(l) {
				return l, nil
			}
			return append(append([]any{}, l...), r[len(l):]...), nil
		}
	}

	l, err := toNumber(left)
	if err != nil {
		return nil, err
	}
	r, err := toNumber(right)
	if err != nil {
		return nil, err
	}
	li, lint := l.(int64)
	ri, rint := r.(int64)
	bothInt := lint && rint

	switch op {
	case "+":
		if bothInt {
			return li + ri, nil
		}
		return toFloat(l) + toFloat(r), nil
	case "-":
		if bothInt {
			return li - ri, nil
		}
		return toFloat(l) - toFloat(r), nil
	case "*":
		if bothInt {
			return li * ri, nil
		}
		return toFloat(l) * toFloat(r), nil
	case "/":
		if toFloat(r) == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		if bothInt && li%ri == 0 {
			return li / ri, nil
		}
		return toFloat(l) / toFloat(r), nil
	case "%":
		a, _ := toInt(l)
		b, _ := toInt(r)
		if b == 0 {
			return nil, fmt.Errorf("modulo by zero")
		}
		return a % b, nil
	case "**":
		if bothInt && ri >= 0 && ri < 64 {
			result := int64(1)
			for i := int64(0); i < ri; i++ {
				result *= li
			}
			return result, nil
		}
		return math.Pow(toFloat(l), toFloat(r)), nil
	}
	return nil, fmt.Errorf("unsupported operator %q", op)
}
