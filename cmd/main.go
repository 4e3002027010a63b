package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aadykin95/telegram-food-bot-render/config"
	"github.com/aadykin95/telegram-food-bot-render/controllers"
	"github.com/aadykin95/telegram-food-bot-render/routes"
	"github.com/aadykin95/telegram-food-bot-render/services"
	"github.com/aadykin95/telegram-food-bot-render/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/translate"
	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:           "foodbot",
		Short:         "Telegram bot that logs meals and reports calories",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().String("port", "", "HTTP port for the keep-alive server (env PORT).")
	cmd.Flags().String("log-level", "", "Log level: debug|info|warn|error (env LOG_LEVEL).")
	_ = v.BindPFlag("port", cmd.Flags().Lookup("port"))
	_ = v.BindPFlag("log_level", cmd.Flags().Lookup("log-level"))

	cmd.AddCommand(newTokenCmd())
	return cmd
}

// newTokenCmd mints a bearer token for the operator reports API.
func newTokenCmd() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print an operator token for /api/reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			v := viper.New()
			v.AutomaticEnv()
			tok, err := utils.GenerateJWT([]byte(v.GetString("jwt_secret")), subject, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "operator", "Token subject.")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime.")
	return cmd
}

func serve(parent context.Context, cfg *config.Config) error {
	log, err := utils.NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		awsCfg      aws.Config
		awsEndpoint string
	)
	if cfg.UsesAWS() {
		awsCfg, awsEndpoint, err = utils.LoadAWSConfig(ctx, cfg.AWSRegion)
		if err != nil {
			return err
		}
	}

	openai := services.NewOpenAIService(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.OpenAIVisionModel)

	var provider services.NutritionProvider = openai
	if cfg.NutritionProvider == config.ProviderEdamam {
		provider = services.NewEdamamService(cfg.EdamamAppID, cfg.EdamamAppKey)
	}

	var translator services.Translator = services.NopTranslator{}
	if cfg.Translator == config.TranslatorAWS {
		translator = services.NewAWSTranslateService(translate.NewFromConfig(awsCfg))
	}

	var (
		recognizer services.Recognizer = openai
		filter                         = services.AllLabels
	)
	if cfg.VisionProvider == config.ProviderRekognition {
		recognizer = services.NewRekognitionService(rekognition.NewFromConfig(awsCfg))
		filter = services.FilterFoodLabels
	}

	var storage services.PhotoStorage
	if cfg.S3Bucket != "" {
		client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			// LocalStack serves buckets on paths, not subdomains
			o.UsePathStyle = awsEndpoint != ""
		})
		storage = utils.NewS3PhotoStore(client, cfg.S3Bucket, cfg.PhotoBaseURL, cfg.AWSRegion)
	}

	var events services.EventPublisher = services.NopPublisher{}
	if cfg.SNSTopicArn != "" {
		events = services.NewSNSPublisher(sns.NewFromConfig(awsCfg), cfg.SNSTopicArn)
	}

	store, err := openLogStore(ctx, cfg)
	if err != nil {
		return err
	}

	var sessions services.SessionStore
	switch cfg.SessionBackend {
	case config.SessionDynamo:
		sessions = services.NewDynamoSessionStore(dynamodb.NewFromConfig(awsCfg), cfg.SessionTable, cfg.SessionTTL)
	default:
		mem := services.NewMemorySessionStore(cfg.SessionTTL)
		defer mem.Close()
		sessions = mem
	}

	nutrition := services.NewNutritionService(provider, translator, cfg.LookupConcurrency, log)
	reports := services.NewReportService(store, cfg.Location, log)

	bot, err := newBotAPI(cfg)
	if err != nil {
		return err
	}
	log.Info("authorized on telegram", zap.String("bot", bot.Self.UserName))

	botCtl := controllers.NewBotController(controllers.BotDeps{
		Bot:          bot,
		Confirmation: services.NewConfirmationService(sessions),
		Photos:       services.NewPhotoService(recognizer, filter, storage, log),
		FoodLog:      services.NewFoodLogService(nutrition, store, events, cfg.Location, log),
		Reports:      reports,
		Charts:       services.NewChartService(),
		HTTPClient:   bot.Client,
		Log:          log,
	})

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.SetupRouter(controllers.NewReportController(reports), []byte(cfg.JWTSecret)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	u.AllowedUpdates = []string{"message", "callback_query"}
	updates := bot.GetUpdatesChan(u)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("keep-alive server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return botCtl.Run(gctx, updates)
	})
	g.Go(func() error {
		<-gctx.Done()
		bot.StopReceivingUpdates()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	log.Info("bot stopped", zap.Error(err))
	return err
}

func openLogStore(ctx context.Context, cfg *config.Config) (services.LogStore, error) {
	if cfg.LogBackend == config.BackendSheets {
		return services.NewSheetsLogStore(ctx, services.SheetsConfig{
			CredentialsJSON: []byte(cfg.GCPCredentials),
			SpreadsheetID:   cfg.SpreadsheetID,
			SpreadsheetName: cfg.SpreadsheetName,
			SheetName:       cfg.SheetName,
		})
	}
	db, err := config.OpenDB(cfg)
	if err != nil {
		return nil, err
	}
	return services.NewGormLogStore(db)
}

func newBotAPI(cfg *config.Config) (*tgbotapi.BotAPI, error) {
	client := &http.Client{Timeout: 90 * time.Second}
	if cfg.ProxyURL != "" {
		proxy, err := url.Parse(cfg.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("PROXY_URL: %w", err)
		}
		client.Transport = &http.Transport{Proxy: http.ProxyURL(proxy)}
	}
	bot, err := tgbotapi.NewBotAPIWithClient(cfg.Token, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	return bot, nil
}
