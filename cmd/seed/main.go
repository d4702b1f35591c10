package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/24SankeerthM/FUTURE-FS-02/config"
	"github.com/24SankeerthM/FUTURE-FS-02/models"
	"github.com/24SankeerthM/FUTURE-FS-02/repository"
	"github.com/24SankeerthM/FUTURE-FS-02/service"
	"github.com/24SankeerthM/FUTURE-FS-02/utils"

	"github.com/brianvoe/gofakeit/v6"
)

var seedTags = []string{"hot", "cold", "enterprise", "smb", "referral", "follow-up"}

func main() {
	leadCount := flag.Int("leads", 25, "生成的演示线索数量")
	seed := flag.Int64("seed", 0, "随机种子，0 表示随机")
	flag.Parse()

	cfg := config.LoadConfig()
	utils.InitLogger(cfg.LogLevel, true)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := repository.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		utils.Logger.Error().Err(err).Msg("Failed to connect to MongoDB")
		os.Exit(1)
	}
	defer db.Close(context.Background())

	if err := db.InitializeCollections(ctx); err != nil {
		utils.Logger.Error().Err(err).Msg("初始化数据库集合失败")
		os.Exit(1)
	}

	users := service.NewUserService(repository.NewUserRepository(db), nil, service.AuthSettings{
		JWTSecret:     cfg.JWTSecret,
		TokenTTL:      time.Duration(cfg.JWTExpireHours) * time.Hour,
		AdminName:     cfg.AdminName,
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
	})
	admin, err := users.EnsureSystemAdmin(ctx)
	if err != nil {
		utils.Logger.Error().Err(err).Msg("初始化管理员账户失败")
		os.Exit(1)
	}

	if *leadCount <= 0 {
		utils.Logger.Info().Str("admin", admin.Email).Msg("仅初始化管理员")
		return
	}

	leads := service.NewLeadService(repository.NewLeadRepository(db), users, nil, nil, cfg.PhoneRegion)
	imported, err := leads.BulkImport(ctx, fakeLeads(gofakeit.New(*seed), *leadCount), admin.ID)
	if err != nil {
		utils.Logger.Error().Err(err).Msg("写入演示线索失败")
		os.Exit(1)
	}

	utils.Logger.Info().
		Str("admin", admin.Email).
		Int("imported", imported).
		Msg("演示数据初始化完成")
}

// fakeLeads 生成演示线索
func fakeLeads(faker *gofakeit.Faker, n int) []models.ImportRecord {
	records := make([]models.ImportRecord, 0, n)
	for i := 0; i < n; i++ {
		rec := models.ImportRecord{
			Name:  faker.Name(),
			Email: faker.Email(),
			Tags:  []string{faker.RandomString(seedTags)},
		}
		if faker.Bool() {
			rec.Phone = faker.Phone()
		}
		records = append(records, rec)
	}
	return records
}
