package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/hitoshi/cinelog/internal/model"
)

// pqUniqueViolation はPostgreSQLのUNIQUE制約違反のエラーコード。
const pqUniqueViolation = "23505"

// PostgresMemberRepo はPostgreSQLを使用した会員リポジトリ。
type PostgresMemberRepo struct {
	db *sql.DB
}

// NewPostgresMemberRepo はPostgresMemberRepoを生成する。
func NewPostgresMemberRepo(db *sql.DB) *PostgresMemberRepo {
	return &PostgresMemberRepo{db: db}
}

// FindByID は指定IDの会員を取得する。見つからない場合はnilを返す。
func (r *PostgresMemberRepo) FindByID(ctx context.Context, id string) (*model.Member, error) {
	member := &model.Member{}
	var birth sql.NullTime
	var gender, email sql.NullString

	err := r.db.QueryRowContext(ctx,
		`SELECT id, password, name, birth, gender, email, phone_number, created_at
		 FROM member WHERE id = $1`,
		id,
	).Scan(
		&member.ID, &member.PasswordHash, &member.Name,
		&birth, &gender, &email,
		&member.PhoneNumber, &member.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("会員の取得に失敗しました: %w", err)
	}

	if birth.Valid {
		member.Birth = &birth.Time
	}
	member.Gender = gender.String
	member.Email = email.String

	return member, nil
}

// Create は会員を作成する。
// 重複検出は事前SELECTではなくUNIQUE制約違反で行う。
// 制約名からID重複（DUPLICATE_MEMBER）とメールアドレス重複（DUPLICATE_EMAIL）を
// 区別してAPIErrorに変換する。
func (r *PostgresMemberRepo) Create(ctx context.Context, member *model.Member) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO member (id, password, name, birth, gender, email, phone_number, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		member.ID, member.PasswordHash, member.Name,
		nullTime(member.Birth), nullString(member.Gender), nullString(member.Email),
		member.PhoneNumber, member.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			if pqErr.Constraint == "member_email_key" {
				return model.NewDuplicateEmailError()
			}
			return model.NewDuplicateMemberError()
		}
		return fmt.Errorf("会員の作成に失敗しました: %w", err)
	}

	return nil
}

// nullString は空文字列をNULLとして格納するためのsql.NullStringを返す。
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// nullTime はnilをNULLとして格納するためのsql.NullTimeを返す。
func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// compile-time interface check
var _ MemberRepository = (*PostgresMemberRepo)(nil)
