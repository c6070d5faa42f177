package auth

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"

	"github.com/scottstamp/AFFiNE/internal/database"
	"github.com/scottstamp/AFFiNE/internal/logs"
	"github.com/scottstamp/AFFiNE/internal/user"
)

var client = resty.New().SetTimeout(10 * time.Second)

// Signup : Inscription via Supabase Auth puis création de la ligne locale
func Signup(c *gin.Context) {
	supabaseBaseURL := os.Getenv("NEXT_PUBLIC_SUPABASE_URL")
	supabaseAnonKey := os.Getenv("SUPABASE_ANON_KEY")

	var input struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		Username  string `json:"username"`
		Firstname string `json:"firstname"`
		Lastname  string `json:"lastname"`
		AvatarURL string `json:"avatar_url"`
		Language  string `json:"language"`
	}
	if err := c.BindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requête invalide"})
		return
	}

	if input.Email == "" || input.Password == "" || input.Username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Champs requis manquants"})
		return
	}

	// Vérification que email et username n'existent pas
	if user.ExistsByEmail(input.Email) {
		c.JSON(http.StatusConflict, gin.H{"error": "Email déjà utilisé"})
		return
	}
	if user.ExistsByUsername(input.Username) {
		c.JSON(http.StatusConflict, gin.H{"error": "Nom d'utilisateur déjà utilisé"})
		return
	}

	// Étape 1 – Appel à Supabase Auth
	var authResp struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	resp, err := client.R().
		SetHeader("apikey", supabaseAnonKey).
		SetBody(map[string]string{
			"email":    input.Email,
			"password": input.Password,
		}).
		SetResult(&authResp).
		Post(supabaseBaseURL + "/auth/v1/signup")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur Supabase Auth"})
		return
	}
	if resp.StatusCode() >= 400 {
		c.JSON(resp.StatusCode(), gin.H{"error": "Erreur Auth", "details": string(resp.Body())})
		return
	}

	userID := authResp.User.ID
	if userID == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Aucun ID utilisateur renvoyé par Supabase"})
		return
	}

	// Étape 2 – Créer l'utilisateur dans la table locale
	newUser := user.User{
		ID:        userID,
		CreatedAt: time.Now(),
		Username:  input.Username,
		Firstname: input.Firstname,
		Lastname:  input.Lastname,
		AvatarURL: input.AvatarURL,
		Email:     input.Email,
		Language:  input.Language,
	}
	if err := database.DB.Create(&newUser).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur insertion base utilisateurs"})
		logs.LogJSON("ERROR", "User insert error", map[string]interface{}{
			"error": err.Error(),
			"route": c.FullPath(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Utilisateur inscrit 🎉",
		"user":    newUser,
	})
}

// Login : Connexion, renvoie le token Supabase tel quel
func Login(c *gin.Context) {
	supabaseBaseURL := os.Getenv("NEXT_PUBLIC_SUPABASE_URL")

	var body map[string]string
	if err := c.BindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requête invalide"})
		return
	}

	resp, err := client.R().
		SetHeader("apikey", os.Getenv("SUPABASE_ANON_KEY")).
		SetBody(body).
		Post(supabaseBaseURL + "/auth/v1/token?grant_type=password")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur Supabase Auth"})
		return
	}
	if resp.StatusCode() >= 400 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Identifiants invalides"})
		return
	}

	c.Data(http.StatusOK, "application/json", resp.Body())
}
