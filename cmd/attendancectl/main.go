// Command attendancectl 运维工具：执行迁移、在终端查看按部门出勤统计、导出 xlsx。
// 与 HTTP 服务共用配置、日志、数据库与 Service 装配。
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fachturrpl1/absensi-sub009/config"
	"github.com/fachturrpl1/absensi-sub009/internal/repository"
	"github.com/fachturrpl1/absensi-sub009/internal/service"
	"github.com/fachturrpl1/absensi-sub009/pkg/database"
	applogger "github.com/fachturrpl1/absensi-sub009/pkg/logger"
)

var (
	configPath string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "attendancectl",
	Short:         "absensi 考勤服务运维工具",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		logger, err = applogger.NewLogger(&cfg.Log)
		if err != nil {
			return fmt.Errorf("初始化日志失败: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "配置文件路径（默认 ./config/config.yaml）")

	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newExportCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openDB 连接数据库，调用方负责 database.Close
func openDB() (*gorm.DB, error) {
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		return nil, fmt.Errorf("数据库连接失败: %w", err)
	}
	return db, nil
}

// withService 装配 Repository → Service 后执行 fn，结束时关闭连接
func withService(fn func(svc *service.Service) error) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer database.Close(db)

	svc := service.NewService(cfg, repository.NewRepository(db), logger)
	return fn(svc)
}
