package services

import (
  "context"
  "fmt"
  "strings"
  "time"
  "golang.org/x/crypto/bcrypt"
  "github.com/golang-jwt/jwt/v5"
  "github.com/m4rrec0s/cesto-damore-backend-sub007/internal/logger"
)

// The store has a single operator account. Credentials live in env
// vars, so there is no user table behind this service.
type AuthService interface {
  Login(ctx context.Context, email, password string) (string, error)
  ValidateToken(tokenString string) (*JWTClaims, error)
  GetAccessTTL() time.Duration
}

type JWTClaims struct {
  Email string `json:"email"`
  jwt.RegisteredClaims
}

type authService struct {
  log               *logger.Logger
  adminEmail        string
  adminPasswordHash string
  jwtSecretKey      string
  accessTTL         time.Duration
}

func NewAuthService(
  log *logger.Logger,
  adminEmail string,
  adminPasswordHash string,
  jwtSecretKey string,
  accessTTL time.Duration,
) (AuthService, error) {
  serviceLog := log.With("service", "AuthService")
  if strings.TrimSpace(adminEmail) == "" {
    return nil, fmt.Errorf("admin email is empty")
  }
  if strings.TrimSpace(adminPasswordHash) == "" {
    return nil, fmt.Errorf("admin password hash is empty")
  }
  if strings.TrimSpace(jwtSecretKey) == "" {
    return nil, fmt.Errorf("jwt secret key is empty")
  }
  if accessTTL <= 0 {
    accessTTL = 12 * time.Hour
  }
  return &authService{
    log:               serviceLog,
    adminEmail:        strings.ToLower(strings.TrimSpace(adminEmail)),
    adminPasswordHash: adminPasswordHash,
    jwtSecretKey:      jwtSecretKey,
    accessTTL:         accessTTL,
  }, nil
}

func (as *authService) Login(ctx context.Context, email, password string) (string, error) {
  email = strings.ToLower(strings.TrimSpace(email))
  if email == "" || password == "" {
    return "", fmt.Errorf("Email and password are required")
  }
  if email != as.adminEmail {
    return "", fmt.Errorf("Invalid email")
  }
  if err := bcrypt.CompareHashAndPassword([]byte(as.adminPasswordHash), []byte(password)); err != nil {
    return "", fmt.Errorf("Invalid password")
  }

  claims := JWTClaims{
    Email: email,
    RegisteredClaims: jwt.RegisteredClaims{
      Subject: "admin",
      ExpiresAt: jwt.NewNumericDate(time.Now().Add(as.accessTTL)),
      IssuedAt: jwt.NewNumericDate(time.Now()),
    },
  }
  token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
  signed, err := token.SignedString([]byte(as.jwtSecretKey))
  if err != nil {
    return "", fmt.Errorf("Failed to sign token: %w", err)
  }
  as.log.Info("Admin logged in", "email", email)
  return signed, nil
}

func (as *authService) ValidateToken(tokenString string) (*JWTClaims, error) {
  if tokenString == "" {
    return nil, fmt.Errorf("Token string is empty")
  }
  parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
    return []byte(as.jwtSecretKey), nil
  })
  if err != nil {
    return nil, fmt.Errorf("Failed to parse token: %w", err)
  }
  claims, ok := parsedToken.Claims.(*JWTClaims)
  if !ok || !parsedToken.Valid {
    return nil, fmt.Errorf("Invalid or expired JWT token")
  }
  return claims, nil
}

func (as *authService) GetAccessTTL() time.Duration {
  return as.accessTTL
}
