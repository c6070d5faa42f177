package apperror

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error : erreur métier typée, mappée vers un code HTTP + un code stable
type Error struct {
	Code    string
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

var (
	ErrSubscriptionNotExists = New("SUBSCRIPTION_NOT_EXISTS", http.StatusNotFound,
		"Abonnement introuvable")
	ErrSubscriptionAlreadyExists = New("SUBSCRIPTION_ALREADY_EXISTS", http.StatusConflict,
		"Un abonnement actif existe déjà")
	ErrSubscriptionHasBeenCanceled = New("SUBSCRIPTION_HAS_BEEN_CANCELED", http.StatusBadRequest,
		"L'abonnement est déjà annulé")
	ErrSubscriptionNotCanceled = New("SUBSCRIPTION_NOT_CANCELED", http.StatusBadRequest,
		"L'abonnement n'est pas annulé")
	ErrSubscriptionExpired = New("SUBSCRIPTION_EXPIRED", http.StatusBadRequest,
		"L'abonnement est expiré")
	ErrSameSubscriptionRecurring = New("SAME_SUBSCRIPTION_RECURRING", http.StatusBadRequest,
		"La récurrence demandée est identique")
	ErrCantUpdateOnetimePayment = New("CANT_UPDATE_ONETIME_PAYMENT", http.StatusBadRequest,
		"Un paiement à vie ne peut pas être modifié")
	ErrSubscriptionPlanNotFound = New("SUBSCRIPTION_PLAN_NOT_FOUND", http.StatusNotFound,
		"Offre inconnue")
	ErrWorkspaceNotFound = New("WORKSPACE_NOT_FOUND", http.StatusNotFound,
		"Espace de travail introuvable")
	ErrNotWorkspaceMember = New("NOT_WORKSPACE_MEMBER", http.StatusForbidden,
		"Vous n'êtes pas membre de cet espace")
	ErrNotWorkspaceOwner = New("NOT_WORKSPACE_OWNER", http.StatusForbidden,
		"Réservé au propriétaire de l'espace")
	ErrMemberQuotaExceeded = New("MEMBER_QUOTA_EXCEEDED", http.StatusForbidden,
		"Limite de membres atteinte")
	ErrStorageQuotaExceeded = New("STORAGE_QUOTA_EXCEEDED", http.StatusForbidden,
		"Quota de stockage dépassé")
	ErrBlobTooLarge = New("BLOB_TOO_LARGE", http.StatusRequestEntityTooLarge,
		"Fichier trop volumineux pour votre offre")
	ErrDocNotFound = New("DOC_NOT_FOUND", http.StatusNotFound,
		"Document introuvable")
	ErrUserNotFound = New("USER_NOT_FOUND", http.StatusNotFound,
		"Utilisateur non trouvé")
	ErrCustomerPortalFailed = New("CUSTOMER_PORTAL_CREATE_FAILED", http.StatusInternalServerError,
		"Erreur lors de la création du portail client Stripe")
)

// Abort répond avec le code HTTP et le code stable de l'erreur métier.
// Toute erreur non typée devient un 500 générique.
func Abort(c *gin.Context, err error) {
	var appErr *Error
	if errors.As(err, &appErr) {
		c.JSON(appErr.Status, gin.H{"error": appErr.Message, "code": appErr.Code})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur interne", "code": "INTERNAL_ERROR"})
}
