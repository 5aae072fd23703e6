package handlers

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/akolanti/TenderAPI/internal/adapter"
	"github.com/akolanti/TenderAPI/internal/api"
	"github.com/akolanti/TenderAPI/internal/config"
	"github.com/akolanti/TenderAPI/internal/domain/tenderModel"
)

const uploadField = "documents"

// UploadDocuments godoc
// @Summary      Upload tender documents
// @Description  Accepts one or more PDF files in the "documents" field. Each file is extracted on its own; a rejected file does not abort the rest of the batch. New documents are selected for the next analysis.
// @Tags         Documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        documents  formData  file  true  "PDF files"
// @Success      201  {object}  api.UploadResponse  "At least one document was stored"
// @Failure      400  {object}  api.JobResponse     "No files or form too large"
// @Failure      422  {object}  api.UploadResponse  "Every file was rejected"
// @Router       /documents [post]
func (h *Handler) UploadDocuments(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	log := h.logger.Trace(r.Context())

	if err := r.ParseMultipartForm(config.MaxUploadSize); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	files := r.MultipartForm.File[uploadField]
	if len(files) == 0 {
		WriteErrorResponse(w, http.StatusBadRequest, "", uploadField+" is required")
		return
	}

	response := api.UploadResponse{Documents: []api.DocumentResponse{}}
	for _, fileHeader := range files {
		doc, uploadErr := h.ingestFile(r, fileHeader)
		if uploadErr != nil {
			log.Warn("Rejected upload", "file", fileHeader.Filename, "kind", uploadErr.Kind, "reason", uploadErr.Message)
			response.Errors = append(response.Errors, *uploadErr)
			continue
		}
		response.Documents = append(response.Documents, adapter.ToDocumentResponse(doc, h.session.IsSelected(r.Context(), doc.Id)))
	}

	status := http.StatusCreated
	if len(response.Documents) == 0 {
		status = http.StatusUnprocessableEntity
	}
	log.Info("Upload processed", "stored", len(response.Documents), "rejected", len(response.Errors))
	writeJsonResponse(w, status, response)
}

func (h *Handler) ingestFile(r *http.Request, fileHeader *multipart.FileHeader) (tenderModel.Document, *api.UploadError) {
	mimeType, _, err := mime.ParseMediaType(fileHeader.Header.Get("Content-Type"))
	if err != nil || mimeType != config.PDFMimeType {
		return tenderModel.Document{}, &api.UploadError{
			File:    fileHeader.Filename,
			Kind:    "unsupported_type",
			Message: "only PDF files are accepted",
		}
	}

	file, err := fileHeader.Open()
	if err != nil {
		return tenderModel.Document{}, &api.UploadError{File: fileHeader.Filename, Kind: string(tenderModel.KindInternal), Message: "could not read file"}
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return tenderModel.Document{}, &api.UploadError{File: fileHeader.Filename, Kind: string(tenderModel.KindInternal), Message: "could not read file"}
	}

	text, err := h.extractor.Extract(r.Context(), data)
	if err != nil {
		return tenderModel.Document{}, &api.UploadError{
			File:    fileHeader.Filename,
			Kind:    string(tenderModel.KindOf(err)),
			Message: err.Error(),
		}
	}

	doc := h.session.AddDocument(r.Context(), tenderModel.Document{
		Name:      fileHeader.Filename,
		SizeLabel: sizeLabel(int64(len(data))),
		MimeType:  mimeType,
		Text:      text,
	})
	return doc, nil
}

func sizeLabel(size int64) string {
	return fmt.Sprintf("%.2f KB", float64(size)/1024)
}

// ListDocuments godoc
// @Summary      List documents
// @Description  Lists uploaded documents in upload order with their selection flag. Extracted text is not returned.
// @Tags         Documents
// @Produce      json
// @Success      200  {array}  api.DocumentResponse
// @Router       /documents [get]
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	docs := h.session.Documents(r.Context())
	result := make([]api.DocumentResponse, len(docs))
	for i, doc := range docs {
		result[i] = adapter.ToDocumentResponse(doc, h.session.IsSelected(r.Context(), doc.Id))
	}
	writeJsonResponse(w, http.StatusOK, result)
}

// DeleteDocument godoc
// @Summary      Remove a document
// @Description  Removes the document and drops it from the selection.
// @Tags         Documents
// @Param        id   path  string  true  "Document ID"
// @Success      204
// @Failure      400  {object}  api.JobResponse  "Malformed id"
// @Failure      404  {object}  api.JobResponse  "Document not found"
// @Router       /documents/{id} [delete]
func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	id, ok := h.pathId(w, r, "id")
	if !ok {
		return
	}
	if !h.session.RemoveDocument(r.Context(), id) {
		WriteErrorResponse(w, http.StatusNotFound, id, "Document not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleDocument godoc
// @Summary      Toggle selection
// @Description  Adds the document to the analysis selection or removes it.
// @Tags         Documents
// @Produce      json
// @Param        id   path  string  true  "Document ID"
// @Success      200  {object}  api.ToggleResponse
// @Failure      400  {object}  api.JobResponse  "Malformed id"
// @Failure      404  {object}  api.JobResponse  "Document not found"
// @Router       /documents/{id}/toggle [post]
func (h *Handler) ToggleDocument(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	id, ok := h.pathId(w, r, "id")
	if !ok {
		return
	}
	if _, found := h.session.Document(r.Context(), id); !found {
		WriteErrorResponse(w, http.StatusNotFound, id, "Document not found")
		return
	}
	selected := h.session.ToggleSelection(r.Context(), id)
	writeJsonResponse(w, http.StatusOK, api.ToggleResponse{Id: id, Selected: selected})
}
