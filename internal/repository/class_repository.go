package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/scholarhub/scholarhub-api/internal/models"
)

const classColumns = `id, course_name, course_code, instructor, grade_level, subject, room, schedule,
        capacity, enrolled_count, created_at, updated_at`

// ClassRepository manages persistence for classes and their rosters.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs a ClassRepository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// List returns classes matching the provided filters.
func (r *ClassRepository) List(ctx context.Context, filter models.ClassFilter) ([]models.Class, int, error) {
	base := "FROM classes c"
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.Subject != "" {
		conditions = append(conditions, fmt.Sprintf("c.subject = $%d", len(args)+1))
		args = append(args, filter.Subject)
	}
	if filter.GradeLevel > 0 {
		conditions = append(conditions, fmt.Sprintf("c.grade_level = $%d", len(args)+1))
		args = append(args, filter.GradeLevel)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(c.course_name) LIKE $%d OR LOWER(c.course_code) LIKE $%d OR LOWER(c.instructor) LIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	sortBy := filter.SortBy
	allowedSorts := map[string]string{
		"course_name": "c.course_name",
		"course_code": "c.course_code",
		"grade_level": "c.grade_level",
		"created_at":  "c.created_at",
	}
	if sortBy == "" {
		sortBy = "course_name"
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "c.course_name"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d",
		prefixColumns(classColumns, "c"), base, column, order, size, offset)

	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list classes: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count classes: %w", err)
	}
	return classes, total, nil
}

// FindByID fetches a class by ID.
func (r *ClassRepository) FindByID(ctx context.Context, id int64) (*models.Class, error) {
	query := fmt.Sprintf("SELECT %s FROM classes WHERE id = $1", classColumns)
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, id); err != nil {
		return nil, err
	}
	return &class, nil
}

// FindDetailByID fetches a class together with its roster IDs.
func (r *ClassRepository) FindDetailByID(ctx context.Context, id int64) (*models.ClassDetail, error) {
	class, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ids, err := r.RosterStudentIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.ClassDetail{Class: *class, EnrolledStudentIDs: ids}, nil
}

// RosterStudentIDs returns the enrolled student IDs for a class.
func (r *ClassRepository) RosterStudentIDs(ctx context.Context, classID int64) ([]int64, error) {
	const query = `SELECT student_id FROM class_rosters WHERE class_id = $1 ORDER BY enrolled_at, student_id`
	ids := []int64{}
	if err := r.db.SelectContext(ctx, &ids, query, classID); err != nil {
		return nil, fmt.Errorf("list roster ids: %w", err)
	}
	return ids, nil
}

// RosterStudents returns the enrolled students with their details.
func (r *ClassRepository) RosterStudents(ctx context.Context, classID int64) ([]models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students s
        JOIN class_rosters cr ON cr.student_id = s.id
        WHERE cr.class_id = $1 ORDER BY s.last_name, s.first_name`, prefixColumns(studentColumns, "s"))
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, classID); err != nil {
		return nil, fmt.Errorf("list roster students: %w", err)
	}
	return students, nil
}

// AddToRoster inserts a roster row and refreshes the derived enrolled count
// inside one transaction so the count never drifts from the roster.
func (r *ClassRepository) AddToRoster(ctx context.Context, classID, studentID int64) error {
	return r.withRosterTx(ctx, classID, func(tx *sqlx.Tx) error {
		const query = `INSERT INTO class_rosters (class_id, student_id, enrolled_at) VALUES ($1, $2, $3)`
		if _, err := tx.ExecContext(ctx, query, classID, studentID, time.Now().UTC()); err != nil {
			return fmt.Errorf("add roster row: %w", err)
		}
		return nil
	})
}

// RemoveFromRoster deletes a roster row and refreshes the enrolled count.
func (r *ClassRepository) RemoveFromRoster(ctx context.Context, classID, studentID int64) error {
	return r.withRosterTx(ctx, classID, func(tx *sqlx.Tx) error {
		const query = `DELETE FROM class_rosters WHERE class_id = $1 AND student_id = $2`
		if _, err := tx.ExecContext(ctx, query, classID, studentID); err != nil {
			return fmt.Errorf("remove roster row: %w", err)
		}
		return nil
	})
}

func (r *ClassRepository) withRosterTx(ctx context.Context, classID int64, mutate func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin roster tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := mutate(tx); err != nil {
		return err
	}

	const recount = `UPDATE classes SET enrolled_count = (SELECT COUNT(*) FROM class_rosters WHERE class_id = $1), updated_at = $2 WHERE id = $1`
	if _, err := tx.ExecContext(ctx, recount, classID, time.Now().UTC()); err != nil {
		return fmt.Errorf("recount roster: %w", err)
	}
	return tx.Commit()
}

// Create inserts a new class and assigns its ID.
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	now := time.Now().UTC()
	class.CreatedAt = now
	class.UpdatedAt = now
	const query = `INSERT INTO classes (course_name, course_code, instructor, grade_level, subject, room, schedule, capacity, enrolled_count, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING id`
	if err := r.db.GetContext(ctx, &class.ID, query,
		class.CourseName, class.CourseCode, class.Instructor, class.GradeLevel, class.Subject,
		class.Room, class.Schedule, class.Capacity, class.EnrolledCount, class.CreatedAt, class.UpdatedAt); err != nil {
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}

// Update modifies an existing class. The enrolled count is owned by the
// roster operations and is not writable here.
func (r *ClassRepository) Update(ctx context.Context, class *models.Class) error {
	class.UpdatedAt = time.Now().UTC()
	const query = `UPDATE classes SET course_name = :course_name, course_code = :course_code,
        instructor = :instructor, grade_level = :grade_level, subject = :subject, room = :room,
        schedule = :schedule, capacity = :capacity, updated_at = :updated_at
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, class); err != nil {
		return fmt.Errorf("update class: %w", err)
	}
	return nil
}

// Delete removes a class and its roster rows.
func (r *ClassRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM class_rosters WHERE class_id = $1`, id); err != nil {
		return fmt.Errorf("delete roster rows: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM classes WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	return tx.Commit()
}
