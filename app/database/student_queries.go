package database

import (
	"database/sql"
	"fmt"

	"jacaranda-schools/app/models"
)

const studentColumns = `id, admission_number, first_name, last_name, gender, class, education_level, status, guardian_name, guardian_phone, created_at, updated_at`

func scanStudent(row *sql.Row) (*models.Student, error) {
	s := &models.Student{}
	var status string
	var gender, guardianName, guardianPhone sql.NullString
	err := row.Scan(
		&s.ID, &s.AdmissionNumber, &s.FirstName, &s.LastName, &gender,
		&s.Class, &s.EducationLevel, &status, &guardianName, &guardianPhone,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.Gender = models.Gender(gender.String)
	s.Status = models.StudentStatus(status)
	s.GuardianName = guardianName.String
	s.GuardianPhone = guardianPhone.String
	return s, nil
}

// CreateStudent registers a new student. Admission numbers are unique; a
// duplicate surfaces as a ValidationError.
func CreateStudent(db *sql.DB, s *models.Student) error {
	if s.AdmissionNumber == "" || s.FirstName == "" || s.LastName == "" || s.Class == "" || s.EducationLevel == "" {
		return validationErrorf("admission number, name, class and education level are required")
	}
	if s.Status == "" {
		s.Status = models.StudentActive
	}
	if !s.Status.Valid() {
		return validationErrorf("invalid student status %q", s.Status)
	}

	query := `INSERT INTO students (admission_number, first_name, last_name, gender, class, education_level, status, guardian_name, guardian_phone)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING id, created_at, updated_at`
	err := db.QueryRow(query,
		s.AdmissionNumber, s.FirstName, s.LastName, string(s.Gender),
		s.Class, s.EducationLevel, string(s.Status), s.GuardianName, s.GuardianPhone,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return validationErrorf("admission number %s is already registered", s.AdmissionNumber)
		}
		return fmt.Errorf("failed to create student: %w", err)
	}
	return nil
}

// GetStudentByID returns one student.
func GetStudentByID(db *sql.DB, studentID string) (*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`
	s, err := scanStudent(db.QueryRow(query, studentID))
	if err == sql.ErrNoRows {
		return nil, &NotFoundError{Entity: "student", ID: studentID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch student: %w", err)
	}
	return s, nil
}

// UpdateStudent edits the mutable fields of a student record.
func UpdateStudent(db *sql.DB, s *models.Student) error {
	if !s.Status.Valid() {
		return validationErrorf("invalid student status %q", s.Status)
	}

	query := `UPDATE students SET first_name = $1, last_name = $2, gender = $3, class = $4,
			  education_level = $5, status = $6, guardian_name = $7, guardian_phone = $8, updated_at = NOW()
			  WHERE id = $9`
	result, err := db.Exec(query,
		s.FirstName, s.LastName, string(s.Gender), s.Class,
		s.EducationLevel, string(s.Status), s.GuardianName, s.GuardianPhone, s.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update student: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil || rowsAffected == 0 {
		return &NotFoundError{Entity: "student", ID: s.ID}
	}
	return nil
}

// PromoteStudents moves every active student of one class into another.
func PromoteStudents(db *sql.DB, fromClass, toClass string) (int, error) {
	if fromClass == "" || toClass == "" {
		return 0, validationErrorf("both classes are required")
	}

	result, err := db.Exec(
		`UPDATE students SET class = $1, updated_at = NOW() WHERE class = $2 AND status = 'active'`,
		toClass, fromClass,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to promote students: %w", err)
	}
	promoted, _ := result.RowsAffected()
	return int(promoted), nil
}

// SearchStudentsWithPagination lists students filtered by a free-text search
// over name and admission number.
func SearchStudentsWithPagination(db *sql.DB, searchTerm string, limit, offset int) ([]*models.Student, int, error) {
	baseQuery := `FROM students WHERE 1=1`
	var args []interface{}
	argIndex := 1

	if searchTerm != "" {
		pattern := "%" + searchTerm + "%"
		baseQuery += fmt.Sprintf(` AND (LOWER(admission_number) LIKE LOWER($%d)
					 OR LOWER(first_name) LIKE LOWER($%d)
					 OR LOWER(last_name) LIKE LOWER($%d)
					 OR LOWER(first_name || ' ' || last_name) LIKE LOWER($%d))`,
			argIndex, argIndex+1, argIndex+2, argIndex+3)
		args = append(args, pattern, pattern, pattern, pattern)
		argIndex += 4
	}

	var total int
	if err := db.QueryRow(`SELECT COUNT(*) `+baseQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count students: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s %s ORDER BY first_name, last_name LIMIT $%d OFFSET $%d`,
		studentColumns, baseQuery, argIndex, argIndex+1)
	args = append(args, limit, offset)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch students: %w", err)
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		s := &models.Student{}
		var status string
		var gender, guardianName, guardianPhone sql.NullString
		err := rows.Scan(
			&s.ID, &s.AdmissionNumber, &s.FirstName, &s.LastName, &gender,
			&s.Class, &s.EducationLevel, &status, &guardianName, &guardianPhone,
			&s.CreatedAt, &s.UpdatedAt,
		)
		if err != nil {
			continue
		}
		s.Gender = models.Gender(gender.String)
		s.Status = models.StudentStatus(status)
		s.GuardianName = guardianName.String
		s.GuardianPhone = guardianPhone.String
		students = append(students, s)
	}

	return students, total, nil
}
