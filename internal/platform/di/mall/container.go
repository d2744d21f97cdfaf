package mall

import (
	"context"
	"errors"
	"log"
	"strings"

	"caterhub/internal/application/notifier"
	usecase "caterhub/internal/application/usecase"
	authuc "caterhub/internal/application/usecase/auth"

	"caterhub/internal/adapters/out/cloudinary"
	outfs "caterhub/internal/adapters/out/firestore"
	"caterhub/internal/adapters/out/localstore"
	"caterhub/internal/adapters/out/mail"
	"caterhub/internal/adapters/out/secrets"
	settingsdom "caterhub/internal/domain/settings"

	shared "caterhub/internal/platform/di/shared"
)

// Container is the marketplace DI container.
// Pure DI: build deps only. No routing branching.
type Container struct {
	Infra *shared.Infra

	// Cross-cutting
	Badge  *notifier.CartBadge
	Mailer usecase.Mailer

	// Usecases
	CartUC     *usecase.CartUsecase
	CheckoutUC *usecase.CheckoutUsecase
	OrderUC    *usecase.OrderUsecase
	RatingUC   *usecase.RatingUsecase
	ProductUC  *usecase.ProductUsecase
	UserUC     *usecase.UserUsecase
	SettingsUC *usecase.SettingsUsecase
	AuthUC     *authuc.Usecase

	// Image uploads (nil when Cloudinary is not configured)
	Uploader *cloudinary.Uploader
}

func NewContainer(ctx context.Context, infra *shared.Infra) (*Container, error) {
	if infra == nil {
		var err error
		infra, err = shared.NewInfra(ctx)
		if err != nil {
			return nil, err
		}
	}
	if infra.Config == nil {
		return nil, errors.New("di.mall: shared infra config is nil")
	}

	fsClient := infra.Firestore
	if fsClient == nil {
		return nil, errors.New("di.mall: infra.Firestore is nil")
	}
	cfg := infra.Config

	c := &Container{Infra: infra}

	// --------------------------------------------------------
	// Outbound adapters
	// --------------------------------------------------------
	cartRepo := outfs.NewCartRepositoryFS(fsClient)
	orderRepo := outfs.NewOrderRepositoryFS(fsClient)
	productRepo := outfs.NewProductRepositoryFS(fsClient)
	userRepo := outfs.NewUserRepositoryFS(fsClient)
	settingsRepo := outfs.NewSettingsRepositoryFS(fsClient)

	guestStore := localstore.New(infra.GuestStoreDir)

	// Admin secret: Secret Manager first, Firestore fallback inside the usecase
	var secretProvider settingsdom.SecretProvider
	if infra.SecretManager != nil && strings.TrimSpace(infra.ProjectID) != "" {
		secretProvider = secrets.NewProviderSM(infra.SecretManager, infra.ProjectID)
	} else {
		log.Printf("[di.mall] Secret Manager unavailable (admin secret served from Firestore only)")
	}

	// Mail (best-effort everywhere; nil mailer just skips notifications)
	if strings.TrimSpace(cfg.SendGridAPIKey) != "" && strings.TrimSpace(cfg.SendGridFrom) != "" {
		c.Mailer = mail.NewSendGridMailer(cfg.SendGridAPIKey, cfg.SendGridFrom, cfg.SendGridFromName)
	} else {
		log.Printf("[di.mall] SendGrid not configured (SENDGRID_API_KEY/SENDGRID_FROM_EMAIL empty); mail disabled")
	}

	// Cloudinary uploads
	if strings.TrimSpace(cfg.CloudinaryCloudName) != "" {
		c.Uploader = cloudinary.NewUploader(cfg.CloudinaryCloudName, cfg.CloudinaryUploadPreset)
	} else {
		log.Printf("[di.mall] Cloudinary not configured (CLOUDINARY_CLOUD_NAME empty); uploads disabled")
	}

	// --------------------------------------------------------
	// Usecases
	// --------------------------------------------------------
	c.Badge = notifier.NewCartBadge()

	c.CartUC = usecase.NewCartUsecase(cartRepo, guestStore, c.Badge)
	c.CheckoutUC = usecase.NewCheckoutUsecase(orderRepo, c.CartUC)
	c.OrderUC = usecase.NewOrderUsecase(orderRepo, userRepo, c.Mailer)
	c.RatingUC = usecase.NewRatingUsecase(orderRepo)
	c.ProductUC = usecase.NewProductUsecase(productRepo)
	c.UserUC = usecase.NewUserUsecase(userRepo, c.Mailer)
	c.SettingsUC = usecase.NewSettingsUsecase(settingsRepo, secretProvider, infra.AdminSecretName)

	var provider authuc.Provider
	if infra.FirebaseAuth != nil {
		provider = shared.NewAuthProviderFB(infra.FirebaseAuth)
	} else {
		log.Printf("[di.mall] WARN: Firebase Auth unavailable; registration/session endpoints will fail")
	}
	c.AuthUC = authuc.New(provider, c.UserUC, c.CartUC, c.SettingsUC, c.Mailer)

	log.Printf(
		"[di.mall] container built (firestore=%t firebaseAuth=%t secretManager=%t mailer=%t uploader=%t)",
		c.Infra.Firestore != nil,
		c.Infra.FirebaseAuth != nil,
		secretProvider != nil,
		c.Mailer != nil,
		c.Uploader != nil,
	)

	return c, nil
}

// Close releases infra owned by the container.
func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	return c.Infra.Close()
}
