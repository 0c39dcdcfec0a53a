// Package influx writes one point per finished calculation so setups can be
// charted over time. When the server is unreachable points go to a gzipped
// line-protocol backup file instead.
package influx

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/influxdata/influxdb-client-go/v2/domain"
	"github.com/rs/zerolog"

	"github.com/gt7setup/tuner/internal/config"
	"github.com/gt7setup/tuner/pkg/core"
)

// Measurement names.
const (
	MeasurementSpring = "spring_setup"
	MeasurementGear   = "gear_setup"
	MeasurementTire   = "tire_diameter"
)

// ErrDisabled is returned by Connect when influx.enabled is false.
var ErrDisabled = errors.New("influx disabled")

const (
	pingTimeout   = 5 * time.Second
	retentionDays = 365
)

// Manager handles InfluxDB connections and writes.
type Manager struct {
	Client       influxdb2.Client
	Writer       influxdb2_api.WriteAPI
	BackupWriter *gzip.Writer
	IsValid      bool
	Logger       zerolog.Logger
	BackupPath   string

	cfg        config.InfluxConfig
	backupFile *os.File
	mu         sync.Mutex
}

// NewManager creates a new InfluxDB manager.
func NewManager(log zerolog.Logger, cfg config.InfluxConfig, backupPath string) *Manager {
	return &Manager{
		Logger:     log,
		BackupPath: backupPath,
		cfg:        cfg,
	}
}

// Connect establishes a connection to InfluxDB, falling back to the backup
// file when the server does not answer.
func (m *Manager) Connect(ctx context.Context) error {
	if !m.cfg.Enabled {
		return ErrDisabled
	}

	m.Client = influxdb2.NewClientWithOptions(
		m.cfg.URL(),
		m.cfg.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(100).
			SetFlushInterval(1000),
	)

	// validate client connection health
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	running, err := m.Client.Ping(pingCtx)
	cancel()

	if err != nil || !running {
		m.IsValid = false
		m.Logger.Warn().Err(err).Str("backupPath", m.BackupPath).
			Msg("InfluxDB not reachable, writing to backup file")
		return m.openBackup()
	}

	if err := m.setupOrganizationAndBucket(ctx); err != nil {
		return err
	}
	m.createWriter()
	m.IsValid = true
	m.Logger.Info().Str("url", m.cfg.URL()).Msg("InfluxDB client initialized")
	return nil
}

func (m *Manager) openBackup() error {
	if m.BackupWriter != nil {
		return nil
	}
	if m.BackupPath == "" {
		return fmt.Errorf("influx unreachable and no backup path set")
	}
	file, err := os.OpenFile(m.BackupPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("error creating backup file: %w", err)
	}
	m.backupFile = file
	m.BackupWriter = gzip.NewWriter(file)
	return nil
}

func (m *Manager) setupOrganizationAndBucket(ctx context.Context) error {
	orgName := m.cfg.Org

	// ensure org exists
	influxOrg, err := m.Client.OrganizationsAPI().FindOrganizationByName(ctx, orgName)
	if err != nil {
		m.Logger.Info().Str("org", orgName).Msg("Organization not found, creating")
		influxOrg, err = m.Client.OrganizationsAPI().CreateOrganizationWithName(ctx, orgName)
		if err != nil {
			m.Logger.Error().Err(err).Str("org", orgName).Msg("Error creating organization")
			return fmt.Errorf("create organization %q: %w", orgName, err)
		}
	}

	if _, err = m.Client.BucketsAPI().FindBucketByName(ctx, m.cfg.Bucket); err == nil {
		return nil
	}

	m.Logger.Info().Str("bucket", m.cfg.Bucket).Msg("Bucket not found, creating")
	rule := domain.RetentionRuleTypeExpire
	_, err = m.Client.BucketsAPI().CreateBucketWithName(ctx, influxOrg, m.cfg.Bucket, domain.RetentionRule{
		Type:         &rule,
		EverySeconds: 60 * 60 * 24 * retentionDays,
	})
	if err != nil {
		m.Logger.Error().Err(err).Str("bucket", m.cfg.Bucket).Msg("Error creating bucket")
		return fmt.Errorf("create bucket %q: %w", m.cfg.Bucket, err)
	}
	return nil
}

func (m *Manager) createWriter() {
	m.Writer = m.Client.WriteAPI(m.cfg.Org, m.cfg.Bucket)

	go func(errorsCh <-chan error) {
		for writeErr := range errorsCh {
			m.Logger.Error().Err(writeErr).Str("bucket", m.cfg.Bucket).
				Msg("Error sending data to InfluxDB")
		}
	}(m.Writer.Errors())
}

// WritePoint writes a point to InfluxDB or the backup file.
func (m *Manager) WritePoint(point *influxdb2_write.Point) error {
	if m.IsValid {
		m.Writer.WritePoint(point)
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.BackupWriter == nil {
		return fmt.Errorf("influxDB client not initialized and backup writer not available")
	}

	lineProtocol := influxdb2_write.PointToLineProtocol(point, time.Nanosecond)
	if _, err := m.BackupWriter.Write([]byte(lineProtocol + "\n")); err != nil {
		return fmt.Errorf("error writing to InfluxDB backup file: %w", err)
	}
	return nil
}

// Close flushes pending points and releases the client or backup file.
func (m *Manager) Close() error {
	if m.Writer != nil {
		m.Writer.Flush()
	}
	if m.Client != nil {
		m.Client.Close()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	var errs []error
	if m.BackupWriter != nil {
		errs = append(errs, m.BackupWriter.Close())
		m.BackupWriter = nil
	}
	if m.backupFile != nil {
		errs = append(errs, m.backupFile.Close())
		m.backupFile = nil
	}
	m.IsValid = false
	return errors.Join(errs...)
}

func timestamp(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}

// SpringPoint describes a spring setup.
func SpringPoint(c core.SpringCalculation) *influxdb2_write.Point {
	out := c.Output
	return influxdb2.NewPoint(MeasurementSpring,
		map[string]string{
			"vehicle":    c.Vehicle,
			"trackType":  string(c.Input.TrackType),
			"frontTires": string(c.Input.FrontTires),
			"rearTires":  string(c.Input.RearTires),
		},
		map[string]any{
			"weight":          c.Input.VehicleWeight,
			"springFront":     out.SpringRate.Front,
			"springRear":      out.SpringRate.Rear,
			"frequencyFront":  out.SpringFrequency.Front,
			"frequencyRear":   out.SpringFrequency.Rear,
			"compFront":       out.Dampers.FrontCompression,
			"extFront":        out.Dampers.FrontExtension,
			"compRear":        out.Dampers.RearCompression,
			"extRear":         out.Dampers.RearExtension,
			"rollBarFront":    out.RollBar.Front,
			"rollBarRear":     out.RollBar.Rear,
			"camberFront":     out.Alignment.FrontCamber,
			"camberRear":      out.Alignment.RearCamber,
			"toeFront":        out.Alignment.FrontToe,
			"toeRear":         out.Alignment.RearToe,
			"performancePts":  c.Input.PerformancePoints,
			"stiffnessFactor": c.Input.StiffnessMultiplier,
		},
		timestamp(c.Time))
}

// GearPoint describes a gear setup.
func GearPoint(c core.GearCalculation) *influxdb2_write.Point {
	fields := map[string]any{
		"gears":        len(c.Output.Gears),
		"finalDrive":   c.Output.FinalDrive,
		"topSpeedMph":  c.Output.TopSpeedCalculated,
		"zeroToSixty":  c.Output.AccelerationEstimate,
		"tireDiameter": c.Output.TireDiameter,
		"targetMph":    c.Input.TopSpeedMPH,
	}
	for i, g := range c.Output.Gears {
		fields[fmt.Sprintf("ratio%d", i+1)] = g.Ratio
	}
	return influxdb2.NewPoint(MeasurementGear,
		map[string]string{"vehicle": c.Vehicle},
		fields,
		timestamp(c.Time))
}

// TirePoint describes a tire diameter estimate.
func TirePoint(c core.TireCalculation) *influxdb2_write.Point {
	return influxdb2.NewPoint(MeasurementTire,
		map[string]string{},
		map[string]any{
			"diameter":   c.Diameter,
			"speedKph":   c.Observation.SpeedKPH,
			"rpm":        c.Observation.RPM,
			"gearRatio":  c.Observation.GearRatio,
			"finalDrive": c.Observation.FinalDrive,
		},
		timestamp(c.Time))
}
