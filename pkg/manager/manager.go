// SPDX-FileCopyrightText: 2020-present Open Networking Foundation <info@opennetworking.org>
//
// SPDX-License-Identifier: Apache-2.0

package manager

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nfvri/star-ris-simulator/pkg/channel"
	"github.com/nfvri/star-ris-simulator/pkg/links"
	"github.com/nfvri/star-ris-simulator/pkg/metrics"
	"github.com/nfvri/star-ris-simulator/pkg/model"
	"github.com/nfvri/star-ris-simulator/pkg/signal"
	"github.com/nfvri/star-ris-simulator/pkg/simulation"
	"github.com/nfvri/star-ris-simulator/pkg/star"
	redisLib "github.com/nfvri/star-ris-simulator/pkg/store/redis"
	"github.com/nfvri/star-ris-simulator/pkg/utils"
	"github.com/onosproject/onos-lib-go/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const redisRetries = 5

// Config is a manager configuration
type Config struct {
	ModelName string
	// Settings and Realizations override the model file when set
	Settings     string
	Realizations int
	Seed         uint64
	RedisEnabled bool
	// StrictAllocations rejects transmitters whose NOMA fractions sum above one
	StrictAllocations bool
	Workers           int
}

// Manager builds the topology of a model, merges the STAR-RIS paths and runs the power sweep
type Manager struct {
	config  Config
	model   *model.Model
	store   redisLib.Store
	metrics *metrics.Collector

	objects      map[string]model.Object
	transmitters []*model.Transmitter
	receivers    []*model.Receiver
	ris          *model.STAR
	links        *links.Collection
	scenario     simulation.Scenario
	merged       bool
}

// NewManager creates a new manager. A nil store keeps results in memory unless redis is enabled.
func NewManager(config *Config, store redisLib.Store, collector *metrics.Collector) (*Manager, error) {
	log.Info("Creating Manager")
	mgr := &Manager{
		config:  *config,
		model:   &model.Model{},
		store:   store,
		metrics: collector,
	}
	if mgr.store == nil {
		if config.RedisEnabled {
			client := redisLib.InitClient(
				utils.GetEnv("REDIS_HOST", "localhost"),
				utils.GetEnv("REDIS_PORT", "6379"),
				utils.GetEnvInt("REDIS_DB", 0),
				utils.GetEnv("REDIS_USERNAME", ""),
				utils.GetEnv("REDIS_PASSWORD", ""))
			if err := redisLib.Connect(context.Background(), client, redisRetries); err != nil {
				return nil, err
			}
			mgr.store = &redisLib.RedisStore{ResultsDB: client}
		} else {
			mgr.store = &redisLib.MockedRedisStore{}
		}
	}
	return mgr, nil
}

// Start loads the named model and builds its topology
func (m *Manager) Start() error {
	m.model = &model.Model{}
	if err := model.ReadConfig(m.model, m.config.ModelName); err != nil {
		log.Error(err)
		return err
	}
	return m.init()
}

// LoadModel replaces the model with a yaml document and builds its topology
func (m *Manager) LoadModel(data []byte) error {
	m.model = &model.Model{}
	if err := model.ParseConfig(m.model, data); err != nil {
		return err
	}
	return m.init()
}

func (m *Manager) init() error {
	if m.config.Settings != "" {
		m.model.Settings = m.config.Settings
	}
	if m.config.Realizations > 0 {
		m.model.Realizations = m.config.Realizations
	}
	if m.config.Seed != 0 {
		m.model.Seed = m.config.Seed
	}
	if err := m.model.ApplySettings(); err != nil {
		return err
	}
	if err := m.initObjects(); err != nil {
		return err
	}
	if err := m.initLinks(); err != nil {
		return err
	}
	m.merged = false
	return m.initScenario()
}

// Model returns the loaded model
func (m *Manager) Model() *model.Model {
	return m.model
}

// Links returns the link collection of the loaded model
func (m *Manager) Links() *links.Collection {
	return m.links
}

// Store returns the result store
func (m *Manager) Store() redisLib.Store {
	return m.store
}

// Object looks up a system object by name
func (m *Manager) Object(name string) (model.Object, error) {
	if obj, ok := m.objects[name]; ok {
		return obj, nil
	}
	return nil, errors.New(errors.NotFound, "object %s not found", name)
}

// STAR returns the surface of the model, or nil when the settings disable it
func (m *Manager) STAR() *model.STAR {
	return m.ris
}

func (m *Manager) initObjects() error {
	m.objects = make(map[string]model.Object)
	m.transmitters = nil
	m.receivers = nil
	m.ris = nil

	add := func(obj model.Object) error {
		if _, ok := m.objects[obj.GetName()]; ok {
			return errors.New(errors.Invalid, "object %s is defined twice", obj.GetName())
		}
		m.objects[obj.GetName()] = obj
		return nil
	}

	for _, cfg := range m.model.Transmitters {
		allocations := make(map[string]float64, len(cfg.Allocations))
		for _, a := range cfg.Allocations {
			allocations[a.Receiver] = a.Fraction
		}
		tx, err := model.NewTransmitter(cfg.Name, cfg.Position, nil, allocations)
		if err != nil {
			return err
		}
		tx.AntennaGain = cfg.AntennaGain
		tx.Losses = cfg.Losses
		if err := tx.ValidateAllocations(m.config.StrictAllocations); err != nil {
			return err
		}
		if err := add(tx); err != nil {
			return err
		}
		m.transmitters = append(m.transmitters, tx)
	}
	for _, cfg := range m.model.Receivers {
		rx, err := model.NewReceiver(cfg.Name, cfg.Position, cfg.Sensitivity)
		if err != nil {
			return err
		}
		if err := add(rx); err != nil {
			return err
		}
		m.receivers = append(m.receivers, rx)
	}
	if cfg := m.model.RIS; cfg != nil {
		assignment, err := toAssignment(cfg.Assignment)
		if err != nil {
			return err
		}
		ris, err := model.NewSTAR(cfg.Name, cfg.Position, cfg.Elements, assignment)
		if err != nil {
			return err
		}
		if err := add(ris); err != nil {
			return err
		}
		m.ris = ris
	}
	log.Infof("Created %d transmitters, %d receivers, STAR-RIS: %t", len(m.transmitters), len(m.receivers), m.ris != nil)
	return nil
}

func toAssignment(cfg *model.AssignmentConfig) (*model.Assignment, error) {
	if cfg == nil {
		return nil, nil
	}
	assignment := &model.Assignment{BetaR: cfg.BetaR, BetaT: cfg.BetaT}
	switch len(cfg.Elements) {
	case 0:
	case 2:
		assignment.Elements = [2]int{cfg.Elements[0], cfg.Elements[1]}
	default:
		return nil, errors.New(errors.Invalid, "assignment needs one element count per transmitter, got %d", len(cfg.Elements))
	}
	return assignment, nil
}

func (m *Manager) initLinks() error {
	if m.model.Realizations <= 0 {
		return errors.New(errors.Invalid, "realizations must be positive, got %d", m.model.Realizations)
	}
	collection, err := links.NewCollection(m.model.Realizations, m.model.Constants.Frequency, channel.NewStreams(m.model.Seed))
	if err != nil {
		return err
	}
	if m.metrics != nil {
		collection.SetRecorder(m.metrics)
	}

	for _, l := range m.model.Links {
		tx, err := m.Object(l.Tx)
		if err != nil {
			return err
		}
		rx, err := m.Object(l.Rx)
		if err != nil {
			return err
		}
		fadingCfg, err := m.model.GetFading(l.Fading)
		if err != nil {
			return err
		}
		pathlossCfg, err := m.model.GetPathloss(l.Pathloss)
		if err != nil {
			return err
		}
		elements, err := m.risRows(l)
		if err != nil {
			return err
		}
		if err := collection.AddLink(tx, rx, fadingCfg, pathlossCfg, l.Role, elements); err != nil {
			return err
		}
	}
	m.links = collection
	log.Infof("Registered %d links with %d realizations each", collection.Len(), collection.Size())
	return nil
}

// risRows is the number of element rows a RIS sub-link draws: the whole surface towards the far
// user and one transmitter's block otherwise. An empty block draws the whole surface, since the
// combiner indexes such a sub-link globally and adds nothing through it.
func (m *Manager) risRows(l model.LinkConfig) (int, error) {
	if !model.IsRISRole(l.Role) {
		return 0, nil
	}
	if l.Elements > 0 {
		return l.Elements, nil
	}
	if m.ris == nil {
		return 0, errors.New(errors.Invalid, "link %s -> %s has role %s but the model has no STAR-RIS", l.Tx, l.Rx, l.Role)
	}
	rows := m.ris.Elements
	switch l.Role {
	case model.RoleRISBlock1:
		rows = m.ris.BlockSize(0)
	case model.RoleRISBlock2:
		rows = m.ris.BlockSize(1)
	}
	if rows == 0 {
		rows = m.ris.Elements
	}
	return rows, nil
}

// initScenario identifies the served users from the link roles
func (m *Manager) initScenario() error {
	if len(m.transmitters) != 2 {
		return errors.New(errors.NotSupported, "the downlink needs exactly 2 transmitters, got %d", len(m.transmitters))
	}
	sc := simulation.Scenario{BS1: m.transmitters[0], BS2: m.transmitters[1]}
	receiver := func(name string) *model.Receiver {
		for _, rx := range m.receivers {
			if rx.Name == name {
				return rx
			}
		}
		return nil
	}
	for _, l := range m.model.Links {
		if l.Tx != sc.BS1.Name && l.Tx != sc.BS2.Name {
			continue
		}
		switch l.Role {
		case model.RoleCenter1:
			sc.U1c = receiver(l.Rx)
		case model.RoleCenter2:
			sc.U2c = receiver(l.Rx)
		case model.RoleFar, model.RoleNoLink:
			if rx := receiver(l.Rx); rx != nil {
				sc.Uf = rx
			}
		}
	}
	if sc.U1c == nil || sc.U2c == nil || sc.Uf == nil {
		return errors.New(errors.NotSupported, "links must name the two cell-center users and the far user")
	}
	m.scenario = sc
	return nil
}

// Merge folds the STAR-RIS paths into the direct links. Models without a surface are left untouched.
func (m *Manager) Merge() error {
	if m.merged {
		return errors.New(errors.AlreadyExists, "STAR-RIS paths are already merged, reload the model to run again")
	}
	if m.ris == nil {
		log.Info("No STAR-RIS in the model, skipping merge")
		m.merged = true
		return nil
	}
	combiner, err := star.NewCombiner(m.ris, m.links)
	if err != nil {
		return err
	}
	transmitters := []model.Object{m.scenario.BS1, m.scenario.BS2}
	receivers := []model.Object{m.scenario.U1c, m.scenario.U2c, m.scenario.Uf}
	if err := combiner.MergeLink(transmitters, receivers); err != nil {
		return err
	}
	m.merged = true
	m.metrics.MergeDone()
	return nil
}

// Run merges the surface paths, sweeps the transmit power and stores the results under a new run id
func (m *Manager) Run(ctx context.Context) (*simulation.Results, error) {
	if m.links == nil {
		return nil, errors.New(errors.Invalid, "no model loaded")
	}
	start := time.Now()
	if err := m.Merge(); err != nil {
		return nil, err
	}

	c := m.model.Constants
	noise, err := signal.NoisePowerDbm(c.Bandwidth, c.Temperature, c.NoiseFigure)
	if err != nil {
		return nil, err
	}
	powers, err := simulation.PowerAxis(m.model.Sweep.MinDbm, m.model.Sweep.MaxDbm, m.model.Sweep.Points)
	if err != nil {
		return nil, err
	}
	for _, tx := range m.transmitters {
		tx.TransmitPower = make([]float64, len(powers))
		for i, p := range powers {
			tx.TransmitPower[i] = utils.DbmToWatt(p)
		}
	}
	log.Infof("Noise power %.2f dBm, sweeping %d points from %v to %v dBm", noise, len(powers), powers[0], powers[len(powers)-1])

	cfg := simulation.Config{
		PowerDbm:     powers,
		NoiseDbm:     noise,
		ShadowSigma:  c.ShadowSigma,
		CircuitPower: c.CircuitPower,
		Comp:         m.model.Comp,
		Workers:      m.config.Workers,
	}
	if m.metrics != nil {
		cfg.Recorder = m.metrics
	}
	results, err := simulation.Run(ctx, m.links, m.scenario, cfg)
	if err != nil {
		return nil, err
	}
	results.ID = uuid.New().String()
	results.Settings = m.model.Settings

	if err := m.store.AddResults(ctx, results.ID, results); err != nil {
		return nil, err
	}
	elapsed := time.Since(start)
	m.metrics.ObserveRun(elapsed.Seconds())
	log.Infof("Run %s finished in %s", results.ID, elapsed)
	return results, nil
}
