package branches

import (
	"net/http"

	"panpanocha/internal/repository"
	custom_error "panpanocha/pkg/errors"
	"panpanocha/pkg/models"
	"panpanocha/pkg/security"

	"github.com/gin-gonic/gin"
)

type BranchHandler struct {
	Repository *BranchRepository
}

type UpdateBranchRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Details *string `json:"details"`
}

func RegisterRoutes(router *gin.RouterGroup, r *repository.Repository) {
	handler := BranchHandler{Repository: NewBranchRepository(r)}

	router.GET("/branches", security.Authorize("user"), handler.GetBranches)
	router.POST("/branches", security.Authorize("admin"), handler.CreateBranch)
	router.PATCH("/branches/:id", security.Authorize("admin"), handler.UpdateBranch)
	router.DELETE("/branches/:id", security.Authorize("admin"), handler.RemoveBranch)
}

func (h *BranchHandler) GetBranches(c *gin.Context) {
	branches, err := h.Repository.GetBranches()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not list branches", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, branches)
}

func (h *BranchHandler) CreateBranch(c *gin.Context) {
	var branch models.Branch
	if err := c.BindJSON(&branch); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	err := h.Repository.PersistBranch(&branch)
	if _, ok := err.(*custom_error.UniqueViolationError); ok {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Could not insert branch, name not unique", "details": err.Error()})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not insert branch"})
		return
	}

	c.JSON(http.StatusCreated, branch)
}

func (h *BranchHandler) UpdateBranch(c *gin.Context) {
	var req UpdateBranchRequest
	if err := c.BindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	branch, err := h.Repository.UpdateBranch(c.Param("id"), req)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not update branch", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, branch)
}

func (h *BranchHandler) RemoveBranch(c *gin.Context) {
	err := h.Repository.RemoveBranch(c.Param("id"))

	if _, ok := err.(*custom_error.ForeignKeyViolationError); ok {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Could not delete branch", "details": err.Error()})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not delete branch", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Branch deleted successfully"})
}
