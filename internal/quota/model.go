package quota

// Quota : limites effectives calculées pour un utilisateur ou un espace.
// Les valeurs à 0 signifient "illimité" pour MemberLimit.
type Quota struct {
	Name           string `json:"name"`
	BlobLimit      int64  `json:"blob_limit"`
	StorageQuota   int64  `json:"storage_quota"`
	MemberLimit    int64  `json:"member_limit"`
	HistoryDays    int64  `json:"history_days"`
	CopilotActions int64  `json:"copilot_actions"`
}

const (
	MiB = int64(1) << 20
	GiB = int64(1) << 30
)

// Quotas de base par offre. Stripe reste la source de vérité pour
// l'abonnement ; ces valeurs ne dépendent que du plan résolu.
var basePlans = map[string]Quota{
	"free": {
		Name:           "Free",
		BlobLimit:      10 * MiB,
		StorageQuota:   10 * GiB,
		MemberLimit:    3,
		HistoryDays:    7,
		CopilotActions: 0,
	},
	"pro": {
		Name:           "Pro",
		BlobLimit:      100 * MiB,
		StorageQuota:   100 * GiB,
		MemberLimit:    10,
		HistoryDays:    30,
		CopilotActions: 10,
	},
	"ai": {
		Name:           "AI",
		BlobLimit:      100 * MiB,
		StorageQuota:   100 * GiB,
		MemberLimit:    10,
		HistoryDays:    30,
		CopilotActions: 1000,
	},
	"team": {
		Name:           "Team",
		BlobLimit:      500 * MiB,
		StorageQuota:   100 * GiB,
		MemberLimit:    0,
		HistoryDays:    90,
		CopilotActions: 10,
	},
}

// BasePlan renvoie le quota de base d'une offre, free si inconnue
func BasePlan(plan string) Quota {
	if q, ok := basePlans[plan]; ok {
		return q
	}
	return basePlans["free"]
}

// Stockage supplémentaire par siège pour les espaces d'équipe
const TeamSeatStorage = 20 * GiB
