package handlers

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"backend/internal/models"
)

const minPasswordLength = 6

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type UpdateProfileRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

type loginResponseUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Register creates a customer account. Staff accounts are created through
// the admin user endpoint, not here.
func Register(db *mongo.Database, log *zap.SugaredLogger, jwtSecret string, accessTTL, refreshTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		createUser(c, db, log, req, models.RoleCustomer, jwtSecret, accessTTL, refreshTTL)
	}
}

// CreateStaffUser lets an admin provision staff accounts.
func CreateStaffUser(db *mongo.Database, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		createUser(c, db, log, req, models.RoleStaff, "", 0, 0)
	}
}

func createUser(c *gin.Context, db *mongo.Database, log *zap.SugaredLogger, req RegisterRequest, role, jwtSecret string, accessTTL, refreshTTL time.Duration) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	name := strings.TrimSpace(req.Name)
	password := strings.TrimSpace(req.Password)

	if email == "" || name == "" || password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email, password and name are required"})
		return
	}
	if len(password) < minPasswordLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password too short"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	count, err := db.Collection("users").CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		log.Errorw("register lookup failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Errorw("password hash failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "password hash failed"})
		return
	}

	now := time.Now()
	user := models.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Phone:        strings.TrimSpace(req.Phone),
		Address:      strings.TrimSpace(req.Address),
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	res, err := db.Collection("users").InsertOne(ctx, user)
	if err != nil {
		log.Errorw("register insert failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	id, _ := res.InsertedID.(primitive.ObjectID)

	log.Infow("user registered", "email", email, "role", role)

	// Staff provisioning does not log the new account in.
	if jwtSecret == "" {
		c.JSON(http.StatusCreated, gin.H{
			"user": loginResponseUser{ID: id.Hex(), Name: name, Email: email, Role: role},
		})
		return
	}

	tokens, err := issueTokens(c, db, id, email, role, jwtSecret, accessTTL, refreshTTL)
	if err != nil {
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"accessToken":  tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
		"expiresIn":    tokens.ExpiresIn,
		"user":         loginResponseUser{ID: id.Hex(), Name: name, Email: email, Role: role},
	})
}

func Login(db *mongo.Database, log *zap.SugaredLogger, jwtSecret string, accessTTL, refreshTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))
		if email == "" || strings.TrimSpace(req.Password) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
			log.Warnw("login failed", "email", email)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		if !user.IsActive {
			c.JSON(http.StatusForbidden, gin.H{"error": "user is inactive"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			log.Warnw("login failed", "email", email)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		tokens, err := issueTokens(c, db, user.ID, user.Email, user.Role, jwtSecret, accessTTL, refreshTTL)
		if err != nil {
			log.Errorw("login token generation failed", "error", err)
			return
		}

		log.Infow("login succeeded", "email", user.Email, "role", user.Role)
		c.JSON(http.StatusOK, gin.H{
			"accessToken":  tokens.AccessToken,
			"refreshToken": tokens.RefreshToken,
			"expiresIn":    tokens.ExpiresIn,
			"user": loginResponseUser{
				ID:    user.ID.Hex(),
				Name:  user.Name,
				Email: user.Email,
				Role:  user.Role,
			},
		})
	}
}

func Refresh(db *mongo.Database, log *zap.SugaredLogger, jwtSecret string, accessTTL, refreshTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RefreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		plain := strings.TrimSpace(req.RefreshToken)
		if plain == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "refreshToken is required"})
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		hash := hashToken(plain)
		var token models.RefreshToken
		if err := db.Collection("refresh_tokens").FindOne(ctx, bson.M{
			"tokenHash": hash,
			"revoked":   false,
		}).Decode(&token); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
			return
		}

		if time.Now().After(token.ExpiresAt) {
			if _, err := db.Collection("refresh_tokens").UpdateByID(ctx, token.ID, bson.M{"$set": bson.M{"revoked": true}}); err != nil {
				log.Warnw("expired refresh token revocation failed", "tokenId", token.ID.Hex(), "error", err)
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": "refresh token expired"})
			return
		}

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": token.UserID}).Decode(&user); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}
		if !user.IsActive {
			c.JSON(http.StatusForbidden, gin.H{"error": "user is inactive"})
			return
		}

		newTokens, err := issueTokens(c, db, user.ID, user.Email, user.Role, jwtSecret, accessTTL, refreshTTL)
		if err != nil {
			log.Errorw("refresh token generation failed", "error", err)
			return
		}

		// A failed revoke leaves the rotated token usable; make it visible.
		if _, err := db.Collection("refresh_tokens").UpdateByID(ctx, token.ID, bson.M{
			"$set": bson.M{
				"revoked":         true,
				"replacedByToken": newTokens.RefreshTokenID,
			},
		}); err != nil {
			log.Errorw("refresh token revocation failed", "tokenId", token.ID.Hex(), "error", err)
		}

		c.JSON(http.StatusOK, gin.H{
			"accessToken":  newTokens.AccessToken,
			"refreshToken": newTokens.RefreshToken,
			"expiresIn":    newTokens.ExpiresIn,
			"user": loginResponseUser{
				ID:    user.ID.Hex(),
				Name:  user.Name,
				Email: user.Email,
				Role:  user.Role,
			},
		})
	}
}

func Logout(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RefreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		plain := strings.TrimSpace(req.RefreshToken)
		if plain == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "refreshToken is required"})
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		res, err := db.Collection("refresh_tokens").UpdateOne(ctx, bson.M{
			"tokenHash": hashToken(plain),
			"revoked":   false,
		}, bson.M{"$set": bson.M{"revoked": true}})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "logged out"})
	}
}

func GetMe(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := c.Get("userId")
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}

		c.JSON(http.StatusOK, user)
	}
}

// UpdateProfile lets a user change their display name, phone and address.
func UpdateProfile(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := c.Get("userId")
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req UpdateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		update := bson.M{}
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "name cannot be empty"})
				return
			}
			update["name"] = name
		}
		if req.Phone != nil {
			update["phone"] = strings.TrimSpace(*req.Phone)
		}
		if req.Address != nil {
			update["address"] = strings.TrimSpace(*req.Address)
		}

		if len(update) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}
		update["updatedAt"] = time.Now()

		ctx, cancel := requestContext(c)
		defer cancel()

		res, err := db.Collection("users").UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": update})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "profile updated"})
	}
}

type issuedTokens struct {
	AccessToken    string
	RefreshToken   string
	RefreshTokenID primitive.ObjectID
	ExpiresIn      int64
}

func issueTokens(c *gin.Context, db *mongo.Database, userID primitive.ObjectID, email, role, secret string, accessTTL, refreshTTL time.Duration) (*issuedTokens, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"userId": userID.Hex(),
		"role":   role,
		"email":  email,
		"exp":    now.Add(accessTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	accessToken, err := token.SignedString([]byte(secret))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return nil, err
	}

	plainRefresh := generateRefreshString()
	if plainRefresh == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return nil, errors.New("could not generate refresh token")
	}

	refresh := models.RefreshToken{
		UserID:    userID,
		TokenHash: hashToken(plainRefresh),
		ExpiresAt: now.Add(refreshTTL),
		Revoked:   false,
		CreatedAt: now,
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	res, err := db.Collection("refresh_tokens").InsertOne(ctx, refresh)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return nil, err
	}

	return &issuedTokens{
		AccessToken:    accessToken,
		RefreshToken:   plainRefresh,
		RefreshTokenID: res.InsertedID.(primitive.ObjectID),
		ExpiresIn:      int64(accessTTL.Seconds()),
	}, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func generateRefreshString() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	return hex.EncodeToString(buf)
}
