package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"Athena_Nexus/internal/model"
	"Athena_Nexus/internal/pkg"
	"Athena_Nexus/internal/repository/mysql"
)

type UserService struct {
	repo     *mysql.UserRepository
	subs     *mysql.SubmissionRepository
	tokens   *pkg.TokenService
	activity *ActivityService
}

func NewUserService(repo *mysql.UserRepository, subs *mysql.SubmissionRepository, tokens *pkg.TokenService, activity *ActivityService) *UserService {
	return &UserService{repo: repo, subs: subs, tokens: tokens, activity: activity}
}

// Profile 注册、管理员建号时可选的资料
type Profile struct {
	DisplayName  string
	Email        string
	ContactEmail string
	Members      []model.Member
}

// ProfilePatch nil 表示不修改
type ProfilePatch struct {
	DisplayName  *string
	Email        *string
	ContactEmail *string
	Members      *[]model.Member
}

type AuthResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// CreateAccount 新账号角色固定为 member；displayName 默认取用户名，contactEmail 默认取 email
func (s *UserService) CreateAccount(ctx context.Context, username, password string, p Profile) (*model.User, error) {
	return s.create(ctx, username, password, model.RoleMember, p)
}

func (s *UserService) create(ctx context.Context, username, password string, role model.Role, p Profile) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, pkg.ErrValidation.WithMsg("Username and password are required")
	}
	if !pkg.IsValidPassword(password) {
		return nil, pkg.ErrWeakPassword
	}
	exists, err := s.repo.UsernameExists(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if exists {
		return nil, pkg.ErrDuplicateUsername
	}

	hash, err := pkg.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &model.User{
		Username:     username,
		Password:     hash,
		Role:         role,
		DisplayName:  p.DisplayName,
		Email:        normalizeEmail(p.Email),
		ContactEmail: normalizeEmail(p.ContactEmail),
		Members:      p.Members,
	}
	if user.DisplayName == "" {
		user.DisplayName = username
	}
	if user.ContactEmail == "" {
		user.ContactEmail = user.Email
	}
	if user.Members == nil {
		user.Members = []model.Member{}
	}
	if err := s.repo.Create(ctx, user); err != nil {
		// 并发注册同名账号时由唯一索引兜底
		if mysql.IsDuplicate(err) {
			return nil, pkg.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Signup 自助注册，成功后直接登录
func (s *UserService) Signup(ctx context.Context, username, password string, p Profile) (*AuthResult, error) {
	user, err := s.CreateAccount(ctx, username, password, p)
	if err != nil {
		return nil, err
	}
	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	s.activity.Record(ctx, &user.ID, model.ActionLogin, "New user registered")
	return &AuthResult{Token: token, User: user}, nil
}

var errInvalidCredentials = pkg.ErrUnauthorized.WithMsg("Invalid credentials")

// Login 用户不存在和密码错误返回同一个错误
func (s *UserService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, pkg.ErrValidation.WithMsg("Username and password are required")
	}
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if !mysql.IsNotFound(err) {
			return nil, fmt.Errorf("find user: %w", err)
		}
		s.activity.Record(ctx, nil, model.ActionFailedLogin, "Failed login attempt for username: "+username)
		return nil, errInvalidCredentials
	}
	if !pkg.CheckPassword(user.Password, password) {
		s.activity.Record(ctx, &user.ID, model.ActionFailedLogin, "Invalid password")
		return nil, errInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	s.activity.Record(ctx, &user.ID, model.ActionLogin, "Successful login")
	return &AuthResult{Token: token, User: user}, nil
}

// Resolve 校验令牌并加载账号，账号已删除同样视为未登录
func (s *UserService) Resolve(ctx context.Context, token string) (*model.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, pkg.ErrUnauthorized.WithMsg("Invalid token")
	}
	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		if mysql.IsNotFound(err) {
			return nil, pkg.ErrUnauthorized.WithMsg("User not found")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *UserService) Logout(ctx context.Context, user *model.User) {
	s.activity.Record(ctx, &user.ID, model.ActionLogout, "User logged out")
}

// ChangePassword 登录态修改密码，旧密码立即失效
func (s *UserService) ChangePassword(ctx context.Context, user *model.User, current, next string) error {
	if current == "" || next == "" {
		return pkg.ErrValidation.WithMsg("Current and new passwords are required")
	}
	if !pkg.CheckPassword(user.Password, current) {
		return pkg.ErrUnauthorized.WithMsg("Current password is incorrect")
	}
	return s.setPassword(ctx, user, next)
}

// ResetPassword 管理员重置，密码规则与自助修改一致
func (s *UserService) ResetPassword(ctx context.Context, id uint64, next string) error {
	user, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if next == "" {
		return pkg.ErrValidation.WithMsg("New password is required")
	}
	return s.setPassword(ctx, user, next)
}

func (s *UserService) setPassword(ctx context.Context, user *model.User, raw string) error {
	if !pkg.IsValidPassword(raw) {
		return pkg.ErrWeakPassword
	}
	hash, err := pkg.HashPassword(raw)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.repo.UpdatePassword(ctx, user, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	user.Password = hash
	return nil
}

func (s *UserService) get(ctx context.Context, id uint64) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if mysql.IsNotFound(err) {
			return nil, pkg.ErrNotFound.WithMsg("User not found")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// ListMembers 只列出 member 账号，新建的在前
func (s *UserService) ListMembers(ctx context.Context) ([]model.User, error) {
	list, err := s.repo.ListByRole(ctx, model.RoleMember)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return list, nil
}

// UpdateProfile 管理员或本人可改，角色不可改
func (s *UserService) UpdateProfile(ctx context.Context, caller *model.User, id uint64, patch ProfilePatch) (*model.User, error) {
	user, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := RequireOwnerOrAdmin(caller, user.ID); err != nil {
		if errors.Is(err, pkg.ErrForbidden) {
			return nil, pkg.ErrForbidden.WithMsg("Not authorized to update this user")
		}
		return nil, err
	}
	if patch.DisplayName != nil {
		user.DisplayName = *patch.DisplayName
	}
	if patch.Email != nil {
		user.Email = normalizeEmail(*patch.Email)
	}
	if patch.ContactEmail != nil {
		user.ContactEmail = normalizeEmail(*patch.ContactEmail)
	}
	if patch.Members != nil {
		user.Members = *patch.Members
		if user.Members == nil {
			user.Members = []model.Member{}
		}
	}
	if err := s.repo.UpdateProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// Delete 名下有提交的账号不能删
func (s *UserService) Delete(ctx context.Context, id uint64) error {
	user, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	n, err := s.subs.Count(ctx, mysql.SubmissionFilter{UserID: &user.ID})
	if err != nil {
		return fmt.Errorf("count submissions: %w", err)
	}
	if n > 0 {
		return pkg.ErrHasDependents.WithMsg("Cannot delete user with existing submissions")
	}
	if err := s.repo.Delete(ctx, user.ID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// EnsureAdmin 初始化管理员账号，已存在时返回 false
func (s *UserService) EnsureAdmin(ctx context.Context, username, password string, p Profile) (*model.User, bool, error) {
	existing, err := s.repo.FindByUsername(ctx, username)
	if err == nil {
		return existing, false, nil
	}
	if !mysql.IsNotFound(err) {
		return nil, false, fmt.Errorf("find user: %w", err)
	}
	user, err := s.create(ctx, username, password, model.RoleAdmin, p)
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

// 邮箱统一去空格并转小写
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
