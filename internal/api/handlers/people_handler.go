package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"example.com/giradamata/services/admin/internal/format"
	"example.com/giradamata/services/admin/internal/models"
	"example.com/giradamata/services/admin/internal/service"
)

// PeopleHandler handles people-registry HTTP requests
type PeopleHandler struct {
	people *service.PersonService
}

// NewPeopleHandler creates a new people handler
func NewPeopleHandler(people *service.PersonService) *PeopleHandler {
	return &PeopleHandler{people: people}
}

// PersonRequest is the payload for creating or updating a person
type PersonRequest struct {
	Name     string `json:"name" binding:"required"`
	Document string `json:"document"`
	Phone    string `json:"phone"`
}

// List returns all active people, with the derived document type attached
func (h *PeopleHandler) List(c *gin.Context) {
	people, err := h.people.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]gin.H, 0, len(people))
	for _, p := range people {
		docType, docValid := format.ClassifyDocument(p.Document)
		out = append(out, gin.H{
			"person":        p,
			"documentType":  docType,
			"documentValid": docValid,
		})
	}
	c.JSON(http.StatusOK, out)
}

// Create registers a new person. Document and phone are validated and
// normalized before any mutation is attempted.
func (h *PeopleHandler) Create(c *gin.Context) {
	var req PersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, valid := format.ClassifyDocument(req.Document); req.Document != "" && !valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid document"})
		return
	}

	person := &models.Person{
		Name:     req.Name,
		Document: format.Document(req.Document),
		Phone:    format.PhoneNumber(req.Phone),
	}

	created, err := h.people.Create(c.Request.Context(), person, actorFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Update rewrites a person
func (h *PeopleHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req PersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, valid := format.ClassifyDocument(req.Document); req.Document != "" && !valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid document"})
		return
	}

	person, err := h.people.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	person.Name = req.Name
	person.Document = format.Document(req.Document)
	person.Phone = format.PhoneNumber(req.Phone)

	updated, err := h.people.Update(c.Request.Context(), person, actorFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete soft-deletes a person
func (h *PeopleHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.people.Delete(c.Request.Context(), id, actorFrom(c)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
