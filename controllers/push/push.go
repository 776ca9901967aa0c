package pushControllers

import (
	"log"
	"net/http"
	"os"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/MoNRaSpGit/KioscoPiloto-Back/metrics"
	"github.com/MoNRaSpGit/KioscoPiloto-Back/models"
)

type SubscribeRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
	Keys     struct {
		P256dh string `json:"p256dh" binding:"required"`
		Auth   string `json:"auth" binding:"required"`
	} `json:"keys" binding:"required"`
}

// SubscribeHandler stores a browser push subscription. Re-subscribing the
// same endpoint refreshes the keys.
func SubscribeHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SubscribeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Suscripción inválida."})
			return
		}

		sub := models.PushSubscription{
			Endpoint: req.Endpoint,
			P256dh:   req.Keys.P256dh,
			Auth:     req.Keys.Auth,
		}
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "endpoint"}},
			DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth"}),
		}).Create(&sub).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al guardar la suscripción."})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"message": "Suscripción registrada con éxito."})
	}
}

// PublicKeyHandler hands the frontend the VAPID public key it needs to
// subscribe.
func PublicKeyHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"publicKey": os.Getenv("VAPID_PUBLIC_KEY")})
	}
}

// Sender fans a web push message out to every stored subscription.
// Best-effort: failures are logged, and an endpoint the push service
// reports as gone is pruned.
type Sender struct {
	vapidPublicKey  string
	vapidPrivateKey string
	subscriber      string

	// swapped out in tests
	send func(message []byte, s *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

func NewSenderFromEnv() *Sender {
	return &Sender{
		vapidPublicKey:  os.Getenv("VAPID_PUBLIC_KEY"),
		vapidPrivateKey: os.Getenv("VAPID_PRIVATE_KEY"),
		subscriber:      os.Getenv("VAPID_SUBSCRIBER"),
		send:            webpush.SendNotification,
	}
}

func (s *Sender) NotifyAll(db *gorm.DB, payload []byte) {
	if s.vapidPrivateKey == "" {
		return
	}

	var subs []models.PushSubscription
	if err := db.Find(&subs).Error; err != nil {
		log.Printf("❌ Failed to load push subscriptions: %v", err)
		return
	}

	for _, sub := range subs {
		resp, err := s.send(payload, &webpush.Subscription{
			Endpoint: sub.Endpoint,
			Keys:     webpush.Keys{P256dh: sub.P256dh, Auth: sub.Auth},
		}, &webpush.Options{
			TTL:             30,
			VAPIDPublicKey:  s.vapidPublicKey,
			VAPIDPrivateKey: s.vapidPrivateKey,
			Subscriber:      s.subscriber,
		})
		if err != nil {
			log.Printf("❌ Push to %s failed: %v", sub.Endpoint, err)
			continue
		}
		resp.Body.Close()

		// 410 Gone (some services answer 404) means the subscription is dead.
		if resp.StatusCode == http.StatusGone || resp.StatusCode == http.StatusNotFound {
			if err := db.Where("endpoint = ?", sub.Endpoint).
				Delete(&models.PushSubscription{}).Error; err != nil {
				log.Printf("❌ Failed to prune subscription %s: %v", sub.Endpoint, err)
				continue
			}
			metrics.PushPruned.Inc()
			log.Printf("🗑️ Pruned stale push subscription %s", sub.Endpoint)
			continue
		}
		metrics.PushSent.Inc()
	}
}
