package userControllers

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/MoNRaSpGit/KioscoPiloto-Back/models"
)

type RegisterRequest struct {
	Name      string `json:"name" binding:"required"`
	Password  string `json:"password" binding:"required"`
	Direccion string `json:"direccion" binding:"required"`
}

type LoginRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register creates a regular user. The role is always "user"; admins are
// provisioned directly in the database.
func Register(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Todos los campos son obligatorios."})
			return
		}

		var count int64
		if err := db.Model(&models.User{}).Where("name = ?", req.Name).Count(&count).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al registrar el usuario."})
			return
		}
		if count > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "El usuario ya existe."})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al registrar el usuario."})
			return
		}

		user := models.User{
			Name:      req.Name,
			Password:  string(hash),
			Direccion: req.Direccion,
			Role:      "user",
		}
		if err := db.Create(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al registrar el usuario."})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"message": "Usuario registrado con éxito."})
	}
}

// Login checks the credentials and issues a 24h bearer token.
func Login(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Nombre y contraseña son obligatorios."})
			return
		}

		var user models.User
		if err := db.Where("name = ?", req.Name).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Nombre o contraseña incorrectos."})
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Nombre o contraseña incorrectos."})
			return
		}

		token, err := generateToken(user)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error interno del servidor."})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Login exitoso.", "token": token, "user": user})
	}
}

// GetAllUsers lists every registered user (admin only).
func GetAllUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []models.User
		if err := db.
			Select("id", "name", "direccion", "role", "created_at").
			Order("created_at desc").
			Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener los usuarios."})
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

func generateToken(user models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"name":    user.Name,
		"role":    user.Role,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
