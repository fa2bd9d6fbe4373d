package branches

import (
	"fmt"

	"panpanocha/internal/repository"
	custom_error "panpanocha/pkg/errors"
	"panpanocha/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type BranchRepository struct {
	Repository *repository.Repository
}

func NewBranchRepository(r *repository.Repository) *BranchRepository {
	return &BranchRepository{Repository: r}
}

func (r *BranchRepository) GetBranches() ([]models.Branch, error) {
	var branches = []models.Branch{}
	query := r.Repository.GoquDBWrapper.Select("id", "name", "address", "details").From("branches")
	if err := query.Executor().ScanStructs(&branches); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return branches, nil
}

func (r *BranchRepository) GetBranch(branchID string) (*models.Branch, error) {
	var branch models.Branch
	query := r.Repository.GoquDBWrapper.Select("id", "name", "address", "details").
		From("branches").
		Where(goqu.Ex{"id": branchID})

	found, err := query.Executor().ScanStruct(&branch)
	if err != nil {
		return nil, fmt.Errorf("failed to get branch: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("branch %s not found", branchID)
	}

	return &branch, nil
}

func (r *BranchRepository) PersistBranch(branch *models.Branch) error {
	query := r.Repository.GoquDBWrapper.Insert("branches").
		Rows(goqu.Record{
			"name":    branch.Name,
			"address": branch.Address,
			"details": branch.Details,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&branch.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return custom_error.WrapDBError("Duplicate branch name", string(pqErr.Code))
		}
		return fmt.Errorf("failed to insert branch record: %w", err)
	}

	return nil
}

func (r *BranchRepository) UpdateBranch(branchID string, req UpdateBranchRequest) (models.Branch, error) {
	updates := make(map[string]interface{})

	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.Details != nil {
		updates["details"] = *req.Details
	}
	if len(updates) == 0 {
		return models.Branch{}, fmt.Errorf("no fields to update")
	}

	var branch models.Branch
	query := r.Repository.GoquDBWrapper.
		Update("branches").
		Set(updates).
		Where(goqu.Ex{"id": branchID}).
		Returning("id", "name", "address", "details")

	if _, err := query.Executor().ScanStruct(&branch); err != nil {
		return models.Branch{}, fmt.Errorf("failed to update branch: %w", err)
	}

	return branch, nil
}

func (r *BranchRepository) RemoveBranch(branchID string) error {
	query := r.Repository.GoquDBWrapper.Delete("branches").Where(goqu.Ex{"id": branchID})

	if _, err := query.Executor().Exec(); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return custom_error.WrapDBError("branch", string(pqErr.Code))
		}
		return fmt.Errorf("failed to delete branch: %w", err)
	}

	return nil
}
