package handlers

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ledongthuc/pdf"

	"backbar/internal/ai"
	applog "backbar/internal/log"
)

const maxRecipeUploadSize = 5 << 20 // 5 MiB

// ImportRecipe parses a recipe from pasted text or an uploaded document and
// returns a preview with every line matched against the catalog. Nothing is
// saved; the client confirms the mapping and posts the recipe.
func ImportRecipe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !requireService(w, r) {
		return
	}
	if assistant == nil {
		writeJSONError(w, http.StatusServiceUnavailable, aiUnavailableMessage)
		return
	}

	if err := r.ParseMultipartForm(maxRecipeUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		applog.Error(r.Context(), "failed to parse recipe import form", "error", err)
		writeJSONError(w, http.StatusBadRequest, "Upload is too large or invalid. Please retry with a smaller file.")
		return
	}

	nameHint := strings.TrimSpace(r.FormValue("name_hint"))
	rawText := strings.TrimSpace(r.FormValue("text"))

	fileName, fileBytes, fileType, err := readUpload(r, "file")
	if err != nil {
		applog.Error(r.Context(), "recipe upload read failed", "error", err)
		writeJSONError(w, http.StatusBadRequest, "Unable to read the uploaded file. Please try again.")
		return
	}

	var base64Payload string
	if len(fileBytes) > 0 {
		processed, encoded, convErr := deriveTextFromUpload(fileBytes, fileType)
		if convErr != nil {
			applog.Error(r.Context(), "failed to extract recipe text", "error", convErr, "mime", fileType)
			writeJSONError(w, http.StatusUnprocessableEntity, "We couldn't interpret the uploaded document. Try a different format.")
			return
		}
		if strings.TrimSpace(processed) != "" {
			if rawText != "" {
				rawText += "\n\n"
			}
			rawText += processed
		} else if encoded != "" {
			base64Payload = encoded
		}
	}

	if strings.TrimSpace(rawText) == "" && base64Payload == "" {
		writeJSONError(w, http.StatusBadRequest, "Provide recipe text or upload a document before running the import.")
		return
	}

	ctx := r.Context()
	parsed, err := assistant.ParseRecipe(ctx, ai.RecipeImportInput{
		NameHint:   nameHint,
		RawText:    rawText,
		Base64File: base64Payload,
		FileName:   fileName,
		FileType:   fileType,
	})
	if err != nil {
		applog.Error(ctx, "recipe extraction failed", "error", err)
		writeJSONError(w, http.StatusBadGateway, "We couldn't interpret that recipe. Please refine the input and try again.")
		return
	}

	preview, err := service.PreviewImport(ctx, parsed)
	if err != nil {
		writeCatalogError(w, r, err, "unable to match recipe ingredients")
		return
	}
	writeJSON(w, http.StatusOK, preview)
}

func readUpload(r *http.Request, field string) (string, []byte, string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil, "", nil
		}
		return "", nil, "", err
	}
	defer file.Close()

	if header.Size > maxRecipeUploadSize {
		return "", nil, "", fmt.Errorf("file exceeds %d bytes", maxRecipeUploadSize)
	}

	buf := bytes.NewBuffer(make([]byte, 0, header.Size))
	if _, err := io.Copy(buf, file); err != nil {
		return "", nil, "", err
	}

	mime := header.Header.Get("Content-Type")
	if mime == "" || mime == "application/octet-stream" {
		mime = mimeTypeFromName(header.Filename)
	}

	return header.Filename, buf.Bytes(), mime, nil
}

// deriveTextFromUpload returns either extracted text or, for images, the
// base64 payload to send to the model.
func deriveTextFromUpload(data []byte, mime string) (string, string, error) {
	lower := strings.ToLower(mime)
	switch {
	case strings.Contains(lower, "pdf"):
		text, err := extractTextFromPDF(data)
		if err != nil {
			return "", "", err
		}
		return text, "", nil
	case strings.Contains(lower, "html"):
		text, err := extractTextFromHTML(data)
		if err != nil {
			return "", "", err
		}
		return text, "", nil
	case strings.HasPrefix(lower, "text/") || strings.Contains(lower, "json"):
		return string(data), "", nil
	case strings.HasPrefix(lower, "image/"):
		return "", base64.StdEncoding.EncodeToString(data), nil
	default:
		return string(data), "", nil
	}
}

func extractTextFromPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	var builder strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", err
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}
	return builder.String(), nil
}

// extractTextFromHTML keeps the readable text of a saved recipe page, one
// block per line. Scripts and styles are dropped.
func extractTextFromHTML(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	doc.Find("script, style, noscript, nav, footer").Remove()

	var lines []string
	doc.Find("h1, h2, h3, h4, p, li, td, th").Each(func(_ int, sel *goquery.Selection) {
		if text := strings.Join(strings.Fields(sel.Text()), " "); text != "" {
			lines = append(lines, text)
		}
	})
	if len(lines) == 0 {
		return strings.Join(strings.Fields(doc.Text()), " "), nil
	}
	return strings.Join(lines, "\n"), nil
}

func mimeTypeFromName(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".txt", ".md":
		return "text/plain"
	case ".html", ".htm":
		return "text/html"
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
