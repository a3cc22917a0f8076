package adapter

import (
	"bytes"
	"fmt"
	"sort"

	sitter "github.com/smacker/go-tree-sitter"

	m "cleandesigner.dev/pkg/cleandesigner/internal/model"
)

// memberExtent widens the span of siblings[index] to the text that has to go
// with it when the member is removed.
func memberExtent(src []byte, siblings []*sitter.Node, index int) m.Span {
	start := int(siblings[index].StartByte())
	end := int(siblings[index].EndByte())

	for j := index - 1; j >= 0; j-- {
		prev := siblings[j]
		if prev.Type() != nodeComment {
			break
		}

		if !isWhitespace(src[prev.EndByte():start]) || !startsLine(src, int(prev.StartByte())) {
			break
		}

		start = int(prev.StartByte())
	}

	if index+1 < len(siblings) {
		next := siblings[index+1]
		if next.Type() == nodeComment && isInlineSpace(src[end:next.StartByte()]) {
			end = int(next.EndByte())
		}
	}

	lineStart := lineStartOf(src, start)
	lineEnd, ok := lineEndAfter(src, end)

	if !ok || !isInlineSpace(src[lineStart:start]) {
		// The member shares its line with other code: only take the spaces before it.
		for start > lineStart && isInlineSpaceByte(src[start-1]) {
			start--
		}

		return m.Span{Start: start, End: end}
	}

	start, end = lineStart, lineEnd

	if blankEnd, blank := blankLineAt(src, end); blank && (previousLineBlank(src, start) || previousLineOpensBlock(src, start)) {
		end = blankEnd
	}

	return m.Span{Start: start, End: end}
}

func isWhitespace(b []byte) bool {
	return len(bytes.TrimSpace(b)) == 0
}

func isInlineSpaceByte(c byte) bool {
	return c == ' ' || c == '\t'
}

func isInlineSpace(b []byte) bool {
	for _, c := range b {
		if !isInlineSpaceByte(c) {
			return false
		}
	}

	return true
}

func startsLine(src []byte, offset int) bool {
	return isInlineSpace(src[lineStartOf(src, offset):offset])
}

func lineStartOf(src []byte, offset int) int {
	return bytes.LastIndexByte(src[:offset], '\n') + 1
}

// lineEndAfter skips trailing spaces after offset and returns the offset past
// the line break. ok is false when other code follows on the same line.
func lineEndAfter(src []byte, offset int) (int, bool) {
	i := offset
	for i < len(src) && (isInlineSpaceByte(src[i]) || src[i] == '\r') {
		i++
	}

	if i == len(src) {
		return i, true
	}

	if src[i] == '\n' {
		return i + 1, true
	}

	return offset, false
}

// blankLineAt reports whether the line starting at offset is empty.
func blankLineAt(src []byte, offset int) (int, bool) {
	if offset >= len(src) {
		return offset, false
	}

	end, ok := lineEndAfter(src, offset)
	if !ok || end == offset || end > len(src) || src[end-1] != '\n' {
		return offset, false
	}

	return end, true
}

func previousLine(src []byte, lineStart int) ([]byte, bool) {
	if lineStart == 0 {
		return nil, false
	}

	return src[lineStartOf(src, lineStart-1) : lineStart-1], true
}

func previousLineBlank(src []byte, lineStart int) bool {
	line, ok := previousLine(src, lineStart)

	return ok && isWhitespace(line)
}

func previousLineOpensBlock(src []byte, lineStart int) bool {
	line, ok := previousLine(src, lineStart)

	return ok && bytes.HasSuffix(bytes.TrimSpace(line), []byte("{"))
}

func containsClass(tree *m.SyntaxTree, class *m.Class) bool {
	for _, candidate := range tree.Classes {
		if candidate.Node == class.Node && candidate.Name == class.Name {
			return true
		}
	}

	return false
}

// removedExtents returns the extents of the class members missing from kept.
func removedExtents(class *m.Class, kept []m.Member) ([]m.Span, error) {
	var removed []m.Span

	next := 0

	for _, member := range kept {
		found := false

		for next < len(class.Members) {
			candidate := class.Members[next]
			next++

			if candidate.Node == member.Node {
				found = true
				break
			}

			removed = append(removed, candidate.Extent)
		}

		if !found {
			return nil, fmt.Errorf("%w: %q at offset %d", ErrMemberNotInClass, member.Name, member.Node.Start)
		}
	}

	for _, candidate := range class.Members[next:] {
		removed = append(removed, candidate.Extent)
	}

	return removed, nil
}

func mergeSpans(spans []m.Span) []m.Span {
	if len(spans) == 0 {
		return nil
	}

	sorted := make([]m.Span, len(spans))
	copy(sorted, spans)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	merged := []m.Span{sorted[0]}

	for _, span := range sorted[1:] {
		last := &merged[len(merged)-1]
		if span.Start <= last.End {
			if span.End > last.End {
				last.End = span.End
			}

			continue
		}

		merged = append(merged, span)
	}

	return merged
}

// spliceTree cuts removed out of the tree source and shifts every recorded
// offset accordingly. Declarations inside a removed span disappear.
func spliceTree(tree *m.SyntaxTree, removed []m.Span) *m.SyntaxTree {
	var source bytes.Buffer

	source.Grow(len(tree.Source))

	cursor := 0
	for _, span := range removed {
		source.Write(tree.Source[cursor:span.Start])
		cursor = span.End
	}

	source.Write(tree.Source[cursor:])

	shift := func(offset int) int {
		delta := 0

		for _, span := range removed {
			if span.End <= offset {
				delta += span.Len()
			}
		}

		return offset - delta
	}

	gone := func(offset int) bool {
		for _, span := range removed {
			if span.Contains(offset) {
				return true
			}
		}

		return false
	}

	shiftSpan := func(span m.Span) m.Span {
		return m.Span{Start: shift(span.Start), End: shift(span.End)}
	}

	result := &m.SyntaxTree{
		Path:      tree.Path,
		Source:    source.Bytes(),
		HasErrors: tree.HasErrors,
	}

	for _, class := range tree.Classes {
		if gone(class.Node.Start) {
			continue
		}

		shifted := m.Class{Name: class.Name, Node: shiftSpan(class.Node)}

		for _, member := range class.Members {
			if gone(member.Node.Start) {
				continue
			}

			member.Node = shiftSpan(member.Node)
			member.Extent = shiftSpan(member.Extent)
			shifted.Members = append(shifted.Members, member)
		}

		result.Classes = append(result.Classes, shifted)
	}

	for _, decl := range tree.Properties {
		if !gone(decl.Offset) {
			result.Properties = append(result.Properties, m.Declaration{Name: decl.Name, Offset: shift(decl.Offset)})
		}
	}

	for _, decl := range tree.FieldVariables {
		if !gone(decl.Offset) {
			result.FieldVariables = append(result.FieldVariables, m.Declaration{Name: decl.Name, Offset: shift(decl.Offset)})
		}
	}

	return result
}
