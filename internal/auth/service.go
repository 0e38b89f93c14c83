// Package auth は会員登録とログインのドメインロジックを提供する。
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/cinelog/internal/model"
	"github.com/hitoshi/cinelog/internal/repository"
)

// ServiceConfig はauthサービスの設定を保持する。
type ServiceConfig struct {
	BcryptCost int
}

// Service は会員登録とログインのサービス層。
type Service struct {
	memberRepo repository.MemberRepository
	tokens     *TokenManager
	config     ServiceConfig
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(memberRepo repository.MemberRepository, tokens *TokenManager, config ServiceConfig) *Service {
	if config.BcryptCost == 0 {
		config.BcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		memberRepo: memberRepo,
		tokens:     tokens,
		config:     config,
	}
}

// RegisterInput は会員登録の入力を表す。
type RegisterInput struct {
	ID          string
	Password    string
	Name        string
	Birth       *time.Time
	Gender      string
	Email       string
	PhoneNumber string
}

// Register は会員を登録する。
// 必須項目（ID、パスワード、氏名、電話番号）が欠けている場合はMISSING_FIELDS、
// IDまたはメールアドレスが重複する場合はリポジトリが返すconflictエラーをそのまま返す。
// 重複判定は事前チェックではなくUNIQUE制約違反に依存するため、
// 同時登録の競合でも片方だけが成功する。
func (s *Service) Register(ctx context.Context, in RegisterInput) error {
	if in.ID == "" || in.Password == "" || in.Name == "" || in.PhoneNumber == "" {
		return model.NewMissingFieldsError()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.config.BcryptCost)
	if err != nil {
		return fmt.Errorf("パスワードのハッシュ化に失敗しました: %w", err)
	}

	member := &model.Member{
		ID:           in.ID,
		PasswordHash: string(hash),
		Name:         in.Name,
		Birth:        in.Birth,
		Gender:       in.Gender,
		Email:        in.Email,
		PhoneNumber:  in.PhoneNumber,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.memberRepo.Create(ctx, member); err != nil {
		return err
	}

	slog.Info("member registered",
		slog.String("member_id", member.ID),
	)

	return nil
}

// Login は認証情報を検証してセッショントークンを発行する。
// 未知のIDとパスワード不一致はどちらもINVALID_CREDENTIALSを返し、
// 呼び出し元から区別できない。
func (s *Service) Login(ctx context.Context, id, password string) (string, error) {
	if id == "" || password == "" {
		return "", model.NewMissingFieldsError()
	}

	member, err := s.memberRepo.FindByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("会員の取得に失敗しました: %w", err)
	}
	if member == nil {
		return "", model.NewInvalidCredentialsError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(password)); err != nil {
		return "", model.NewInvalidCredentialsError()
	}

	token, err := s.tokens.Issue(member.ID)
	if err != nil {
		return "", fmt.Errorf("トークンの発行に失敗しました: %w", err)
	}

	return token, nil
}
