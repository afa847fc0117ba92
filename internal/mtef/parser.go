package mtef

// parser walks a raw MTEF v3 byte stream (the payload that follows
// the Equation Native stream's 4-byte header-length prefix) into a
// flat list of records, grounded on
// original_source/src/xu_ly_ole_equation.py's MTEFParser.
type parser struct {
	data []byte
	pos  int

	version  byte
	platform byte
	product  byte
	prodVer  byte
	prodSub  byte
}

// newParser reads the 5-byte MTEF header (version, platform, product,
// product-version, product-subversion); input shorter than that yields
// a parser positioned at the end, with no records to read.
func newParser(data []byte) *parser {
	p := &parser{data: data}
	if len(data) >= 5 {
		p.version = data[0]
		p.platform = data[1]
		p.product = data[2]
		p.prodVer = data[3]
		p.prodSub = data[4]
		p.pos = 5
	} else {
		p.pos = len(data)
	}
	return p
}

func (p *parser) readByte() (byte, bool) {
	if p.pos >= len(p.data) {
		return 0, false
	}
	b := p.data[p.pos]
	p.pos++
	return b, true
}

func (p *parser) peekByte() (byte, bool) {
	if p.pos >= len(p.data) {
		return 0, false
	}
	return p.data[p.pos], true
}

func (p *parser) readUint16LE() uint16 {
	if p.pos+1 >= len(p.data) {
		p.pos = len(p.data)
		return 0
	}
	lo := p.data[p.pos]
	hi := p.data[p.pos+1]
	p.pos += 2
	return uint16(hi)<<8 | uint16(lo)
}

// parse parses every top-level record until the stream is exhausted.
func (p *parser) parse() []record {
	var records []record
	for p.pos < len(p.data) {
		rec, ok := p.parseRecord()
		if !ok {
			break
		}
		records = append(records, rec)
	}
	return records
}

func (p *parser) parseRecord() (record, bool) {
	if p.pos >= len(p.data) {
		return record{}, false
	}
	tag, ok := p.readByte()
	if !ok {
		return record{}, false
	}
	kind := int(tag & 0x0F)

	switch kind {
	case tagEnd:
		return record{kind: tagEnd}, true
	case tagLine:
		return p.parseLine(), true
	case tagChar:
		return p.parseChar(), true
	case tagTmpl:
		return p.parseTmpl(), true
	case tagPile:
		return p.parsePile(), true
	case tagMatrix:
		return p.parseMatrix(), true
	case tagEmbell:
		return p.parseEmbell(), true
	case tagFull, tagSub, tagSub2, tagSym, tagSubSym:
		return record{kind: kind}, true
	case tagRuler, tagFontStyleDef, tagSize:
		return record{kind: -1}, true // skip marker, not surfaced further
	default:
		return record{kind: -1}, true
	}
}

func (p *parser) parseLine() record {
	var children []record
	for p.pos < len(p.data) {
		rec, ok := p.parseRecord()
		if !ok || rec.kind == tagEnd {
			break
		}
		children = append(children, rec)
	}
	return record{kind: tagLine, children: children}
}

func (p *parser) parseChar() record {
	typeface, ok := p.readByte()
	if !ok {
		typeface = 0x81
	}
	code := p.readUint16LE()
	return record{kind: tagChar, fontStyle: int(typeface) - 128, charCode: code}
}

func (p *parser) parseTmpl() record {
	selector, _ := p.readByte()
	variation, _ := p.readByte()
	if variation&0x80 != 0 {
		var2, _ := p.readByte()
		variation = (variation & 0x7F) | (var2 << 7)
	}

	var slots [][]record
	for i := 0; i < 8; i++ {
		if p.pos >= len(p.data) {
			break
		}
		slots = append(slots, p.parseSlot())
		next, ok := p.peekByte()
		if !ok {
			break
		}
		nextKind := int(next & 0x0F)
		if nextKind != tagEnd && nextKind != tagLine {
			break
		}
	}
	return record{kind: tagTmpl, selector: int(selector), variation: int(variation), slots: slots}
}

func (p *parser) parseSlot() []record {
	var records []record
	for p.pos < len(p.data) {
		rec, ok := p.parseRecord()
		if !ok || rec.kind == tagEnd {
			break
		}
		records = append(records, rec)
	}
	return records
}

func (p *parser) parsePile() record {
	halign, _ := p.readByte()
	var lines []record
	for p.pos < len(p.data) {
		rec, ok := p.parseRecord()
		if !ok || rec.kind == tagEnd {
			break
		}
		lines = append(lines, rec)
	}
	return record{kind: tagPile, fontStyle: int(halign), children: lines}
}

func (p *parser) parseMatrix() record {
	rows, ok := p.readByte()
	if !ok || rows == 0 {
		rows = 1
	}
	cols, ok := p.readByte()
	if !ok || cols == 0 {
		cols = 1
	}
	for i := byte(0); i < cols; i++ {
		p.readByte() // column alignment, unused
	}
	cells := make([][]record, 0, int(rows)*int(cols))
	for i := 0; i < int(rows)*int(cols); i++ {
		cells = append(cells, p.parseSlot())
	}
	return record{kind: tagMatrix, rows: int(rows), cols: int(cols), cells: cells}
}

func (p *parser) parseEmbell() record {
	t, _ := p.readByte()
	return record{kind: tagEmbell, embellType: int(t)}
}
