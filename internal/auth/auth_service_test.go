package auth_test

import (
	"context"
	"database/sql"
	"testing"

	"leavedesk/internal/auth"
	autherrors "leavedesk/internal/auth/errors"
	"leavedesk/internal/employee"
	employeeerrors "leavedesk/internal/employee/errors"
	"leavedesk/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type fakeEmployeeRepo struct {
	createFn      func(ctx context.Context, e *employee.Employee) error
	findByIDFn    func(ctx context.Context, id string) (*employee.Employee, error)
	findByEmailFn func(ctx context.Context, email string) (*employee.Employee, error)
	created       []*employee.Employee
}

func (f *fakeEmployeeRepo) WithTx(tx *gorm.DB) employee.Repository { return f }
func (f *fakeEmployeeRepo) Create(ctx context.Context, e *employee.Employee) error {
	f.created = append(f.created, e)
	if f.createFn != nil {
		return f.createFn(ctx, e)
	}
	return nil
}
func (f *fakeEmployeeRepo) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeEmployeeRepo) FindByEmail(ctx context.Context, email string) (*employee.Employee, error) {
	return f.findByEmailFn(ctx, email)
}
func (f *fakeEmployeeRepo) FindAll(ctx context.Context) ([]employee.Employee, error) {
	return nil, nil
}

type fakeOutbox struct {
	created []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *gorm.DB) kafka.OutboxRepository { return f }
func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.created = append(f.created, event)
	return nil
}
func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error                  { return nil }
func (f *fakeOutbox) MarkFailed(ctx context.Context, id string, reason string) error { return nil }

func newGormOverSQLMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	assert.NoError(t, err)
	return gormDB, mock
}

func expectAuthTx(mock sqlmock.Sqlmock, commit bool) {
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func seededEmployee(password string) *employee.Employee {
	pw, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return &employee.Employee{
		ID:           uuid.New(),
		FullName:     "Rina Putri",
		Email:        "rina@example.com",
		Mobile:       "08123456789",
		Department:   "Engineering",
		Role:         employee.RoleEmployee,
		PasswordHash: string(pw),
	}
}

func TestAuthService_Register(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	t.Run("success forces employee role and queues lifecycle event", func(t *testing.T) {
		gormDB, mock := newGormOverSQLMock(t)
		expectAuthTx(mock, true)

		employees := &fakeEmployeeRepo{}
		outbox := &fakeOutbox{}
		svc := auth.NewService(gormDB, employees, outbox)

		resp, err := svc.Register(context.Background(), auth.RegisterRequest{
			FullName:   "Rina Putri",
			Email:      "rina@example.com",
			Mobile:     "08123456789",
			Department: "Engineering",
			Password:   "password123",
		})

		assert.NoError(t, err)
		assert.Equal(t, "rina@example.com", resp.Email)
		assert.Equal(t, employee.RoleEmployee, resp.Role)

		assert.Len(t, employees.created, 1)
		stored := employees.created[0]
		assert.Equal(t, employee.RoleEmployee, stored.Role)
		assert.NotEqual(t, "password123", stored.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("password123")))

		assert.Len(t, outbox.created, 1)
		assert.Equal(t, "employee.created", outbox.created[0].EventType)
		assert.Equal(t, stored.ID.String(), outbox.created[0].AggregateID)
		assert.Equal(t, kafka.OutboxStatusPending, outbox.created[0].Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative duplicate email rolls back", func(t *testing.T) {
		gormDB, mock := newGormOverSQLMock(t)
		expectAuthTx(mock, false)

		employees := &fakeEmployeeRepo{
			createFn: func(ctx context.Context, e *employee.Employee) error {
				return &pgconn.PgError{Code: "23505", ConstraintName: "uq_employee_email"}
			},
		}
		outbox := &fakeOutbox{}
		svc := auth.NewService(gormDB, employees, outbox)

		_, err := svc.Register(context.Background(), auth.RegisterRequest{
			FullName:   "Rina Putri",
			Email:      "rina@example.com",
			Mobile:     "08123456789",
			Department: "Engineering",
			Password:   "password123",
		})

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeAlreadyExists)
		assert.Empty(t, outbox.created)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAuthService_Login(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	stored := seededEmployee("password123")

	t.Run("success", func(t *testing.T) {
		employees := &fakeEmployeeRepo{
			findByEmailFn: func(ctx context.Context, email string) (*employee.Employee, error) {
				assert.Equal(t, stored.Email, email)
				return stored, nil
			},
		}
		svc := auth.NewService(nil, employees, &fakeOutbox{})

		access, refresh, resp, err := svc.Login(context.Background(), stored.Email, "password123")

		assert.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
		assert.Equal(t, stored.Email, resp.Email)
		assert.Equal(t, stored.Role, resp.Role)
	})

	t.Run("negative wrong password", func(t *testing.T) {
		employees := &fakeEmployeeRepo{
			findByEmailFn: func(ctx context.Context, email string) (*employee.Employee, error) {
				return stored, nil
			},
		}
		svc := auth.NewService(nil, employees, &fakeOutbox{})

		_, _, _, err := svc.Login(context.Background(), stored.Email, "wrongpass")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("negative unknown email", func(t *testing.T) {
		employees := &fakeEmployeeRepo{
			findByEmailFn: func(ctx context.Context, email string) (*employee.Employee, error) {
				return nil, sql.ErrNoRows
			},
		}
		svc := auth.NewService(nil, employees, &fakeOutbox{})

		_, _, _, err := svc.Login(context.Background(), "ghost@example.com", "password123")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	stored := seededEmployee("password123")

	t.Run("success round trip", func(t *testing.T) {
		employees := &fakeEmployeeRepo{
			findByEmailFn: func(ctx context.Context, email string) (*employee.Employee, error) {
				return stored, nil
			},
			findByIDFn: func(ctx context.Context, id string) (*employee.Employee, error) {
				assert.Equal(t, stored.ID.String(), id)
				return stored, nil
			},
		}
		svc := auth.NewService(nil, employees, &fakeOutbox{})

		_, refresh, _, err := svc.Login(context.Background(), stored.Email, "password123")
		assert.NoError(t, err)

		access, newRefresh, resp, err := svc.RefreshToken(context.Background(), refresh)
		assert.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, newRefresh)
		assert.Equal(t, stored.Email, resp.Email)
	})

	t.Run("negative garbage token", func(t *testing.T) {
		svc := auth.NewService(nil, &fakeEmployeeRepo{}, &fakeOutbox{})

		_, _, _, err := svc.RefreshToken(context.Background(), "not-a-jwt")
		assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
	})
}

func TestAuthService_GetMe(t *testing.T) {
	stored := seededEmployee("password123")

	t.Run("success", func(t *testing.T) {
		employees := &fakeEmployeeRepo{
			findByIDFn: func(ctx context.Context, id string) (*employee.Employee, error) {
				return stored, nil
			},
		}
		svc := auth.NewService(nil, employees, &fakeOutbox{})

		resp, err := svc.GetMe(context.Background(), stored.ID.String())
		assert.NoError(t, err)
		assert.Equal(t, stored.Email, resp.Email)
	})

	t.Run("negative malformed id", func(t *testing.T) {
		svc := auth.NewService(nil, &fakeEmployeeRepo{}, &fakeOutbox{})

		_, err := svc.GetMe(context.Background(), "not-a-uuid")
		assert.ErrorIs(t, err, autherrors.ErrInvalidUserID)
	})
}
