package app

import (
	"bytes"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"golang.org/x/net/html"
)

var authorPattern = regexp.MustCompile(`(?im)^author:\s*(.+)$`)

// extractText decodes uploaded bytes into plain text for the extension.
func extractText(ext string, data []byte) (string, error) {
	switch ext {
	case ".pdf":
		return extractPDFText(data)
	case ".html", ".htm":
		return extractHTMLText(data)
	default:
		if !utf8.Valid(data) {
			return "", &InvalidEncodingError{Reason: "file is not valid UTF-8"}
		}
		return string(data), nil
	}
}

func extractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &InvalidEncodingError{Reason: "unreadable pdf"}
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", &InvalidEncodingError{Reason: "pdf has no extractable text"}
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", &InvalidEncodingError{Reason: "pdf has no extractable text"}
	}
	return buf.String(), nil
}

func extractHTMLText(data []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return "", &InvalidEncodingError{Reason: "unreadable html"}
	}
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return sb.String(), nil
}

// extractAuthor finds the first case-insensitive "author: ..." line.
func extractAuthor(text string) string {
	match := authorPattern.FindStringSubmatch(text)
	if match == nil {
		return ""
	}
	return strings.TrimSpace(match[1])
}

// trimGutenbergBoilerplate keeps the slice between the first two lines that
// start with "***". Texts without two such marker lines pass through verbatim.
func trimGutenbergBoilerplate(text string) string {
	lines := strings.Split(text, "\n")
	markers := make([]int, 0, 2)
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "***") {
			markers = append(markers, i)
			if len(markers) == 2 {
				break
			}
		}
	}
	if len(markers) < 2 {
		return text
	}
	body := lines[markers[0]+1 : markers[1]]
	return strings.TrimSpace(strings.Join(body, "\n"))
}
