// services/backup.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	log "github.com/sirupsen/logrus"
)

// BackupService snapshots the flat-file store to object storage on an
// interval. It only arms itself when the file backend is selected and
// BACKUP_ENABLED is set; the document backend has its own durability
// story and gets nothing from this.
type BackupService struct {
	appContext.DefaultService

	storageSvc *StorageService

	client     *minio.Client
	bucketName string
	endpoint   string
	accessKey  string
	secretKey  string
	useSSL     bool

	enabled  bool
	interval time.Duration
}

const BACKUP_SVC = "backup_svc"

func (svc BackupService) Id() string {
	return BACKUP_SVC
}

func (svc *BackupService) Configure(ctx *appContext.Context) error {
	svc.enabled = os.Getenv("BACKUP_ENABLED") == "true"

	intervalMinutes := 60
	if m := os.Getenv("BACKUP_INTERVAL_MINUTES"); m != "" {
		if parsed, err := strconv.Atoi(m); err == nil && parsed > 0 {
			intervalMinutes = parsed
		}
	}
	svc.interval = time.Duration(intervalMinutes) * time.Minute

	svc.endpoint = os.Getenv("MINIO_ENDPOINT")
	if svc.endpoint == "" {
		svc.endpoint = "localhost:9000"
	}

	svc.accessKey = os.Getenv("MINIO_ACCESS_KEY")
	if svc.accessKey == "" {
		svc.accessKey = "admin"
	}

	svc.secretKey = os.Getenv("MINIO_SECRET_KEY")
	if svc.secretKey == "" {
		svc.secretKey = "password123"
	}

	svc.useSSL = os.Getenv("MINIO_USE_SSL") == "true"

	svc.bucketName = os.Getenv("MINIO_BUCKET_NAME")
	if svc.bucketName == "" {
		svc.bucketName = "hangbot-backups"
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *BackupService) Start() error {
	svc.storageSvc = svc.Service(STORAGE_SVC).(*StorageService)

	if !svc.enabled {
		return nil
	}
	if svc.storageSvc.Kind() != BackendFile {
		log.Println("Backups enabled but document backend active, nothing to snapshot")
		return nil
	}

	client, err := minio.New(svc.endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(svc.accessKey, svc.secretKey, ""),
		Secure: svc.useSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to create MinIO client: %v", err)
	}
	svc.client = client

	if err := svc.ensureBucket(); err != nil {
		return fmt.Errorf("failed to ensure bucket exists: %v", err)
	}

	go svc.startBackupLoop()

	log.WithFields(log.Fields{
		"endpoint": svc.endpoint,
		"bucket":   svc.bucketName,
		"interval": svc.interval,
	}).Info("File store backups armed")
	return nil
}

func (svc *BackupService) ensureBucket() error {
	ctx := context.Background()

	exists, err := svc.client.BucketExists(ctx, svc.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %v", err)
	}

	if !exists {
		err = svc.client.MakeBucket(ctx, svc.bucketName, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %v", err)
		}
		log.Printf("Created MinIO bucket: %s", svc.bucketName)
	}

	return nil
}

func (svc *BackupService) startBackupLoop() {
	ticker := time.NewTicker(svc.interval)
	for range ticker.C {
		if err := svc.SnapshotNow(); err != nil {
			log.WithError(err).Error("File store backup failed")
		}
	}
}

// SnapshotNow uploads the three store documents under a timestamped
// prefix. Documents are read from disk, not through the backend, so a
// snapshot sees exactly what a restart would load.
func (svc *BackupService) SnapshotNow() error {
	if svc.client == nil {
		return fmt.Errorf("backup service not armed")
	}

	prefix := time.Now().UTC().Format("20060102T150405Z")
	dir := svc.storageSvc.FileDir()

	for _, name := range []string{gamesFile, playersFile, itemsFile} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("failed to read %s: %w", name, err)
		}

		objectName := prefix + "/" + name
		_, err = svc.client.PutObject(context.Background(), svc.bucketName, objectName,
			bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
				ContentType: "application/json",
			})
		if err != nil {
			return fmt.Errorf("failed to upload %s: %w", objectName, err)
		}
	}

	log.WithField("snapshot", prefix).Info("File store snapshot uploaded")
	return nil
}

// ListSnapshots returns the object names under the bucket, newest last.
func (svc *BackupService) ListSnapshots() ([]string, error) {
	if svc.client == nil {
		return nil, fmt.Errorf("backup service not armed")
	}

	var names []string
	objectCh := svc.client.ListObjects(context.Background(), svc.bucketName, minio.ListObjectsOptions{
		Recursive: true,
	})
	for object := range objectCh {
		if object.Err != nil {
			return nil, fmt.Errorf("failed to list objects: %v", object.Err)
		}
		names = append(names, object.Key)
	}

	return names, nil
}
