package runconfig

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/newtron-network/swparse/pkg/util"
)

// Block openers. Matching is by substring, not column position, because
// indentation in real exports is inconsistent.
const (
	openerEthernet    = "interface ethernet"
	openerVLAN        = "interface vlan"
	openerPortChannel = "interface port-channel"
	blockCloser       = "exit"
)

// maxLineSize bounds a single input line.
const maxLineSize = 1 << 20

// ErrParserUsed is returned when a Parser is asked to parse a second input.
var ErrParserUsed = errors.New("parser already used; create a new one per input")

// Option configures a Parser.
type Option func(*Parser)

// WithDebug enables diagnostics for lines that are skipped.
func WithDebug(debug bool) Option {
	return func(p *Parser) { p.debug = debug }
}

// WithStrict makes the first malformed field abort the parse with a
// *util.ParseError instead of being skipped.
func WithStrict(strict bool) Option {
	return func(p *Parser) { p.strict = strict }
}

// WithLogger sets the logger diagnostics are written to.
func WithLogger(log *logrus.Entry) Option {
	return func(p *Parser) {
		if log != nil {
			p.log = log
		}
	}
}

// Parser holds the state of one parse pass: which block is open, the record
// being filled, and the diagnostics gathered so far. A Parser parses exactly
// one input; the package-level Parse functions create one per call.
type Parser struct {
	debug  bool
	strict bool
	log    *logrus.Entry

	used    bool
	lineNo  int
	block   InterfaceKind
	current Interface
	config  *Configuration
	diags   []Diagnostic
}

// New creates a parser for a single input.
func New(opts ...Option) *Parser {
	p := &Parser{
		log:    util.WithComponent("runconfig"),
		config: NewConfiguration(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse reads a running-config from r until EOF.
func Parse(r io.Reader, opts ...Option) (*Configuration, error) {
	return New(opts...).Parse(context.Background(), r)
}

// ParseContext is Parse with cancellation checked between lines.
func ParseContext(ctx context.Context, r io.Reader, opts ...Option) (*Configuration, error) {
	return New(opts...).Parse(ctx, r)
}

// ParseLines parses an already split running-config.
func ParseLines(lines []string, opts ...Option) (*Configuration, error) {
	return New(opts...).ParseLines(lines)
}

// ParseString parses a running-config held in memory.
func ParseString(s string, opts ...Option) (*Configuration, error) {
	return Parse(strings.NewReader(s), opts...)
}

// Parse reads r line by line and returns the configuration. Without
// WithStrict the only errors are read failures and context cancellation.
func (p *Parser) Parse(ctx context.Context, r io.Reader) (*Configuration, error) {
	if err := p.begin(); err != nil {
		return nil, err
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := p.processLine(scanner.Text()); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading running-config at line %d: %w", p.lineNo+1, err)
	}

	return p.finish(), nil
}

// ParseLines parses lines in order and returns the configuration.
func (p *Parser) ParseLines(lines []string) (*Configuration, error) {
	if err := p.begin(); err != nil {
		return nil, err
	}
	for _, line := range lines {
		if err := p.processLine(line); err != nil {
			return nil, err
		}
	}
	return p.finish(), nil
}

// Diagnostics returns the notices gathered while parsing. It is empty unless
// the parser was created WithDebug(true).
func (p *Parser) Diagnostics() []Diagnostic {
	return p.diags
}

func (p *Parser) begin() error {
	if p.used {
		return ErrParserUsed
	}
	p.used = true
	return nil
}

func (p *Parser) finish() *Configuration {
	p.closeBlock()
	return p.config
}

// lineRule is one entry of the dispatcher's ordered rule table.
type lineRule struct {
	name   string
	match  func(line string) bool
	handle func(p *Parser, line string) error
}

// blockRules are evaluated top to bottom; openers come before the closer and
// the closer before the fallthrough to the open block's sub-parser.
var blockRules = []lineRule{
	{"blank", func(line string) bool { return strings.TrimSpace(line) == "" }, skipLine},
	{"comment", func(line string) bool { return strings.HasPrefix(strings.TrimSpace(line), "!") }, skipLine},
	{"interface ethernet", containsPhrase(openerEthernet), opener(KindEthernet, openerEthernet)},
	{"interface vlan", containsPhrase(openerVLAN), opener(KindVLAN, openerVLAN)},
	{"interface port-channel", containsPhrase(openerPortChannel), opener(KindPortChannel, openerPortChannel)},
	{"exit", func(line string) bool { return strings.HasPrefix(strings.TrimSpace(line), blockCloser) }, closer},
}

func (p *Parser) processLine(raw string) error {
	p.lineNo++
	line := strings.TrimRight(raw, "\r\n")

	for _, rule := range blockRules {
		if rule.match(line) {
			return rule.handle(p, line)
		}
	}
	return p.forward(line)
}

func skipLine(*Parser, string) error { return nil }

func closer(p *Parser, _ string) error {
	p.closeBlock()
	return nil
}

// opener returns the handler for a block-opening line: locate or create the
// record, make it current, and let the sub-parser read its identity.
func opener(kind InterfaceKind, phrase string) func(*Parser, string) error {
	return func(p *Parser, line string) error {
		p.closeBlock()

		id := util.Identifier(strings.Join(fieldsAfter(line, phrase), " "))
		if id == "" {
			return p.malformed(line, util.NewFieldErrorf(kind.String()+" designator", "missing after %q", phrase))
		}

		rec, err := p.config.ensure(kind, id)
		if err != nil {
			return err
		}
		p.block = kind
		p.current = rec
		return p.forward(line)
	}
}

func (p *Parser) closeBlock() {
	p.block = KindNone
	p.current = nil
}

// forward hands a line to the sub-parser of the open block.
func (p *Parser) forward(line string) error {
	switch rec := p.current.(type) {
	case *EthernetInterface:
		return applyFieldRules(p, ethernetRules, line, rec)
	case *VLANInterface:
		return applyFieldRules(p, vlanRules, line, rec)
	case *PortChannelInterface:
		return applyFieldRules(p, portChannelRules, line, rec)
	case nil:
		p.unrecognized(line)
		return nil
	default:
		return fmt.Errorf("no sub-parser for %T", rec)
	}
}

// fieldRule is one line grammar of a sub-parser.
type fieldRule[T Interface] struct {
	name  string
	match func(line string) bool
	apply func(line string, rec T) error
}

// applyFieldRules runs the first rule matching line against rec. Lines no
// rule matches are reported as unrecognized.
func applyFieldRules[T Interface](p *Parser, rules []fieldRule[T], line string, rec T) error {
	for _, rule := range rules {
		if !rule.match(line) {
			continue
		}
		err := rule.apply(line, rec)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, util.ErrUnrecognizedLine):
			p.unrecognized(line)
			return nil
		default:
			return p.malformed(line, err)
		}
	}
	p.unrecognized(line)
	return nil
}

// applySwitchport parses a switchport clause and appends it to rec. Lines
// that fail to parse append nothing.
func applySwitchport(line string, rec Interface) error {
	sp, err := parseSwitchport(line)
	if err != nil {
		return err
	}
	rec.addSwitchport(sp)
	return nil
}

func (p *Parser) unrecognized(line string) {
	p.diagnose(DiagUnrecognized, line, util.ErrUnrecognizedLine)
}

// malformed applies the malformed-field policy: abort in strict mode,
// otherwise skip the line and diagnose.
func (p *Parser) malformed(line string, err error) error {
	if p.strict {
		return util.NewParseError(p.lineNo, line, err)
	}
	p.diagnose(DiagMalformed, line, err)
	return nil
}

func (p *Parser) diagnose(kind DiagnosticKind, line string, err error) {
	if !p.debug {
		return
	}
	d := Diagnostic{Line: p.lineNo, Kind: kind, Block: p.block, Text: line, Err: err}
	p.diags = append(p.diags, d)
	p.log.WithFields(logrus.Fields{
		"line":  d.Line,
		"block": d.Block.String(),
	}).Debug(d.String())
}

func containsPhrase(phrase string) func(string) bool {
	return func(line string) bool { return strings.Contains(line, phrase) }
}

// designator returns the first token after phrase, e.g. "1/g1" for
// "interface ethernet 1/g1".
func designator(line, phrase string) string {
	args := fieldsAfter(line, phrase)
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// quotedValue returns the text after label with surrounding quotes removed.
// Internal whitespace is kept as written.
func quotedValue(line, label string) string {
	idx := strings.Index(line, label)
	if idx < 0 {
		return ""
	}
	return util.Unquote(line[idx+len(label):])
}
