package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"code.sajari.com/docconv"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/ledongthuc/pdf"
	"golang.org/x/sync/errgroup"

	"github.com/ludo-technologies/textscope/domain"
)

var plainTextExtensions = map[string]bool{
	".txt":      true,
	".text":     true,
	".md":       true,
	".markdown": true,
	".rst":      true,
}

var convertedExtensions = map[string]bool{
	".docx":  true,
	".doc":   true,
	".odt":   true,
	".rtf":   true,
	".pages": true,
	".html":  true,
	".htm":   true,
	".xml":   true,
}

// DocumentReaderImpl extracts analyzable text from input files.
type DocumentReaderImpl struct{}

// NewDocumentReader creates a document reader.
func NewDocumentReader() *DocumentReaderImpl {
	return &DocumentReaderImpl{}
}

// IsSupported reports whether the file extension can be read.
func (r *DocumentReaderImpl) IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return plainTextExtensions[ext] || convertedExtensions[ext] || ext == ".pdf"
}

// Collect implements domain.DocumentReader. Plain paths are taken as-is,
// directories are searched recursively for supported files, and anything
// else is expanded as a doublestar glob.
func (r *DocumentReaderImpl) Collect(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, pattern := range patterns {
		info, err := os.Stat(pattern)
		switch {
		case err == nil && !info.IsDir():
			add(pattern)
		case err == nil && info.IsDir():
			matches, err := doublestar.FilepathGlob(filepath.Join(pattern, "**", "*"), doublestar.WithFilesOnly())
			if err != nil {
				return nil, domain.NewInvalidInputError(fmt.Sprintf("cannot search directory: %s", pattern), err)
			}
			for _, m := range matches {
				if r.IsSupported(m) {
					add(m)
				}
			}
		default:
			if !doublestar.ValidatePathPattern(pattern) {
				return nil, domain.NewInvalidInputError(fmt.Sprintf("invalid glob pattern: %s", pattern), nil)
			}
			matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
			if err != nil {
				return nil, domain.NewInvalidInputError(fmt.Sprintf("cannot expand pattern: %s", pattern), err)
			}
			if len(matches) == 0 {
				return nil, domain.NewInvalidInputError(fmt.Sprintf("no files match: %s", pattern), nil)
			}
			for _, m := range matches {
				if r.IsSupported(m) {
					add(m)
				}
			}
		}
	}

	if len(files) == 0 {
		return nil, domain.NewInvalidInputError("no supported files found", nil)
	}
	sort.Strings(files)
	return files, nil
}

// Read implements domain.DocumentReader.
func (r *DocumentReaderImpl) Read(ctx context.Context, path string) (*domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(path))
	var (
		text string
		err  error
	)
	switch {
	case ext == ".pdf":
		text, err = readPDF(path)
	case convertedExtensions[ext]:
		text, err = convertDocument(path)
	default:
		text, err = readPlainText(path)
	}
	if err != nil {
		return nil, err
	}

	return &domain.Document{
		Path:  path,
		Title: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Text:  normalizeWhitespace(text),
	}, nil
}

// ReadAll extracts every path with at most concurrency conversions running at
// once. Results keep the order of paths.
func (r *DocumentReaderImpl) ReadAll(ctx context.Context, paths []string, concurrency int) ([]*domain.Document, error) {
	if concurrency < 1 {
		concurrency = domain.DefaultExtractConcurrency
	}
	docs := make([]*domain.Document, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, path := range paths {
		g.Go(func() error {
			doc, err := r.Read(gctx, path)
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

func readPlainText(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", domain.NewInvalidInputError(fmt.Sprintf("cannot read file: %s", path), err)
	}
	if !utf8.Valid(raw) {
		return "", domain.NewInvalidInputError(fmt.Sprintf("file is not UTF-8 text: %s", path), nil)
	}
	return string(raw), nil
}

func readPDF(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", domain.NewInvalidInputError(fmt.Sprintf("cannot open pdf: %s", path), err)
	}
	defer f.Close()

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	if b.Len() == 0 {
		return "", domain.NewInvalidInputError(fmt.Sprintf("no extractable text found in pdf: %s", path), nil)
	}
	return b.String(), nil
}

func convertDocument(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", domain.NewInvalidInputError(fmt.Sprintf("cannot open document: %s", path), err)
	}
	defer f.Close()

	res, err := docconv.Convert(f, docconv.MimeTypeByExtension(path), false)
	if err != nil {
		return "", domain.NewInvalidInputError(fmt.Sprintf("cannot extract text from %s", path), err)
	}
	if strings.TrimSpace(res.Body) == "" {
		return "", domain.NewInvalidInputError(fmt.Sprintf("no extractable text found in %s", path), nil)
	}
	return res.Body, nil
}

// normalizeWhitespace collapses runs of spaces and drops blank lines.
func normalizeWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
