package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/scholarhub/scholarhub-api/internal/models"
)

const gradeColumns = `id, student_id, assignment_id, class_id, score, percentage, created_at, updated_at`

// GradeRepository manages persistence for grades.
type GradeRepository struct {
	db *sqlx.DB
}

// NewGradeRepository constructs a GradeRepository.
func NewGradeRepository(db *sqlx.DB) *GradeRepository {
	return &GradeRepository{db: db}
}

// List returns grades matching the provided filters.
func (r *GradeRepository) List(ctx context.Context, filter models.GradeFilter) ([]models.Grade, error) {
	base := "FROM grades g"
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.StudentID > 0 {
		conditions = append(conditions, fmt.Sprintf("g.student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.AssignmentID > 0 {
		conditions = append(conditions, fmt.Sprintf("g.assignment_id = $%d", len(args)+1))
		args = append(args, filter.AssignmentID)
	}
	if filter.ClassID > 0 {
		conditions = append(conditions, fmt.Sprintf("g.class_id = $%d", len(args)+1))
		args = append(args, filter.ClassID)
	}

	query := fmt.Sprintf("SELECT %s %s WHERE %s ORDER BY g.id",
		prefixColumns(gradeColumns, "g"), base, strings.Join(conditions, " AND "))

	var grades []models.Grade
	if err := r.db.SelectContext(ctx, &grades, query, args...); err != nil {
		return nil, fmt.Errorf("list grades: %w", err)
	}
	return grades, nil
}

// ListAll returns every grade, used by full-collection reductions.
func (r *GradeRepository) ListAll(ctx context.Context) ([]models.Grade, error) {
	return r.List(ctx, models.GradeFilter{})
}

// FindByID fetches a grade by ID.
func (r *GradeRepository) FindByID(ctx context.Context, id int64) (*models.Grade, error) {
	query := fmt.Sprintf("SELECT %s FROM grades WHERE id = $1", gradeColumns)
	var grade models.Grade
	if err := r.db.GetContext(ctx, &grade, query, id); err != nil {
		return nil, err
	}
	return &grade, nil
}

// FindByStudentAndAssignment fetches the unique grade for the pair, if any.
func (r *GradeRepository) FindByStudentAndAssignment(ctx context.Context, studentID, assignmentID int64) (*models.Grade, error) {
	query := fmt.Sprintf("SELECT %s FROM grades WHERE student_id = $1 AND assignment_id = $2", gradeColumns)
	var grade models.Grade
	if err := r.db.GetContext(ctx, &grade, query, studentID, assignmentID); err != nil {
		return nil, err
	}
	return &grade, nil
}

// Create inserts a new grade and assigns its ID.
func (r *GradeRepository) Create(ctx context.Context, grade *models.Grade) error {
	now := time.Now().UTC()
	grade.CreatedAt = now
	grade.UpdatedAt = now
	const query = `INSERT INTO grades (student_id, assignment_id, class_id, score, percentage, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id`
	if err := r.db.GetContext(ctx, &grade.ID, query,
		grade.StudentID, grade.AssignmentID, grade.ClassID, grade.Score, grade.Percentage,
		grade.CreatedAt, grade.UpdatedAt); err != nil {
		return fmt.Errorf("create grade: %w", err)
	}
	return nil
}

// Update modifies the score and derived percentage of an existing grade.
func (r *GradeRepository) Update(ctx context.Context, grade *models.Grade) error {
	grade.UpdatedAt = time.Now().UTC()
	const query = `UPDATE grades SET score = :score, percentage = :percentage, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, grade); err != nil {
		return fmt.Errorf("update grade: %w", err)
	}
	return nil
}

// Delete removes a grade.
func (r *GradeRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM grades WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete grade: %w", err)
	}
	return nil
}

// DeleteByAssignment removes all grades belonging to an assignment, used
// when the assignment itself is deleted.
func (r *GradeRepository) DeleteByAssignment(ctx context.Context, assignmentID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM grades WHERE assignment_id = $1`, assignmentID); err != nil {
		return fmt.Errorf("delete grades by assignment: %w", err)
	}
	return nil
}
