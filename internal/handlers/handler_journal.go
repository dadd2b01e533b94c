package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
	portssvc "github.com/smallbooks/bookkeeping_app/internal/core/ports/services"
	"github.com/smallbooks/bookkeeping_app/internal/dto"
	"github.com/smallbooks/bookkeeping_app/internal/middleware"
)

// journalHandler handles read access to the ledger and entry-level unposting.
type journalHandler struct {
	ledgerService  portssvc.LedgerSvcFacade
	postingService portssvc.PostingSvcFacade
}

func newJournalHandler(ledgerService portssvc.LedgerSvcFacade, postingService portssvc.PostingSvcFacade) *journalHandler {
	return &journalHandler{ledgerService: ledgerService, postingService: postingService}
}

// getEntry godoc
// @Summary Get a journal entry
// @Description Retrieves a journal entry with its lines
// @Tags journal
// @Produce json
// @Param entryID path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Security BearerAuth
// @Router /journal-entries/{entryID} [get]
func (h *journalHandler) getEntry(c *gin.Context) {
	entry, err := h.ledgerService.GetEntryByID(c.Request.Context(), c.Param("entryID"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// getEntryByReference godoc
// @Summary Get a journal entry by reference
// @Description Retrieves the entry linked to a document reference
// @Tags journal
// @Produce json
// @Param reference query string true "Document reference"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 400 {object} map[string]string "Missing reference"
// @Failure 404 {object} map[string]string "Entry not found"
// @Security BearerAuth
// @Router /journal-entries/by-reference [get]
func (h *journalHandler) getEntryByReference(c *gin.Context) {
	reference := c.Query("reference")
	if reference == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reference query parameter is required"})
		return
	}

	entry, err := h.ledgerService.GetEntryByReference(c.Request.Context(), reference)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// listEntries godoc
// @Summary List journal entries
// @Description Retrieves entries by descending entry number with cursor pagination
// @Tags journal
// @Produce json
// @Param limit query int false "Max entries to return" default(20)
// @Param nextToken query string false "Pagination token from a previous response"
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 400 {object} map[string]string "Invalid pagination token"
// @Security BearerAuth
// @Router /journal-entries [get]
func (h *journalHandler) listEntries(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	var nextToken *string
	if token := c.Query("nextToken"); token != "" {
		nextToken = &token
	}

	entries, next, err := h.ledgerService.ListEntries(c.Request.Context(), limit, nextToken)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	out := make([]dto.JournalEntryResponse, len(entries))
	for i := range entries {
		out[i] = dto.ToJournalEntryResponse(&entries[i])
	}
	c.JSON(http.StatusOK, dto.ListEntriesResponse{Entries: out, NextToken: next})
}

// postEntry godoc
// @Summary Post a journal entry for a document
// @Description Resolves posting rules for a DRAFT document and commits the balanced entry
// @Tags journal
// @Accept json
// @Produce json
// @Param document body dto.PostEntryRequest true "Document to post"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 409 {object} map[string]string "Document is not in DRAFT status"
// @Failure 422 {object} map[string]string "A required account role is unmapped"
// @Security BearerAuth
// @Router /journal-entries [post]
func (h *journalHandler) postEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	req := dto.PostEntryRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for entry posting", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	entry, err := h.postingService.PostJournalEntryForDocument(
		c.Request.Context(), req.DocumentID, domain.DocumentType(req.DocumentType), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// unpostEntry godoc
// @Summary Unpost a journal entry
// @Description Voids the entry and returns the linked document to DRAFT
// @Tags journal
// @Produce json
// @Param entryID path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 409 {object} map[string]string "Linked document is not in POSTED status"
// @Security BearerAuth
// @Router /journal-entries/{entryID}/unpost [post]
func (h *journalHandler) unpostEntry(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	entry, err := h.postingService.UnpostJournalEntry(c.Request.Context(), c.Param("entryID"), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// registerJournalRoutes registers journal specific routes
func registerJournalRoutes(group *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade, postingService portssvc.PostingSvcFacade) {
	h := newJournalHandler(ledgerService, postingService)

	journal := group.Group("/journal-entries")
	{
		journal.GET("", h.listEntries)
		journal.POST("", h.postEntry)
		journal.GET("/by-reference", h.getEntryByReference)
		journal.GET("/:entryID", h.getEntry)
		journal.POST("/:entryID/unpost", h.unpostEntry)
	}
}
