package repositories

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslateDuplicateError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "нарушение индекса username",
			err:  &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_username"},
			want: ErrUsernameTaken,
		},
		{
			name: "нарушение индекса email",
			err:  &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"},
			want: ErrEmailTaken,
		},
		{
			name: "ErrDuplicatedKey от TranslateError",
			err:  gorm.ErrDuplicatedKey,
			want: ErrEmailTaken,
		},
		{
			name: "другой код Postgres проходит насквозь",
			err:  &pgconn.PgError{Code: "23503"},
			want: &pgconn.PgError{Code: "23503"},
		},
		{
			name: "прочие ошибки проходят насквозь",
			err:  errors.New("connection reset"),
			want: errors.New("connection reset"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateDuplicateError(tt.err)
			assert.Equal(t, tt.want.Error(), got.Error())
		})
	}
}
