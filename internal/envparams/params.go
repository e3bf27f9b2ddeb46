package envparams

// Params holds simulator settings for one environment instance. Field names
// follow the YAML keys used under env.params in run configurations.
type Params struct {
	// IPC solver
	SimTimeStep               float64 `yaml:"sim_time_step"`
	SimDHat                   float64 `yaml:"sim_d_hat"`
	SimKappa                  float64 `yaml:"sim_kappa"`
	SimKappaAffine            float64 `yaml:"sim_kappa_affine"`
	SimKappaCon               float64 `yaml:"sim_kappa_con"`
	SimEpsD                   float64 `yaml:"sim_eps_d"`
	SimEpsV                   float64 `yaml:"sim_eps_v"`
	SimSolverNewtonMaxIters   int     `yaml:"sim_solver_newton_max_iters"`
	SimSolverCGMaxIters       int     `yaml:"sim_solver_cg_max_iters"`
	SimSolverCGErrorTolerance float64 `yaml:"sim_solver_cg_error_tolerance"`
	SimSolverCGErrorFrequency int     `yaml:"sim_solver_cg_error_frequency"`
	LineSearchMaxIters        int     `yaml:"line_search_max_iters"`
	CCDSlackness              float64 `yaml:"ccd_slackness"`
	CCDThickness              float64 `yaml:"ccd_thickness"`
	CCDTetInversionThres      float64 `yaml:"ccd_tet_inversion_thres"`
	CCDMaxIters               int     `yaml:"ccd_max_iters"`
	EEClassifyThres           float64 `yaml:"ee_classify_thres"`
	EEMollifierThres          float64 `yaml:"ee_mollifier_thres"`
	AllowSelfCollision        bool    `yaml:"allow_self_collision"`

	// tactile sensor
	TacSensorMetaFile  string  `yaml:"tac_sensor_meta_file"`
	TacElasticModulusL float64 `yaml:"tac_elastic_modulus_l"`
	TacPoissonRatioL   float64 `yaml:"tac_poisson_ratio_l"`
	TacDensityL        float64 `yaml:"tac_density_l"`
	TacElasticModulusR float64 `yaml:"tac_elastic_modulus_r"`
	TacPoissonRatioR   float64 `yaml:"tac_poisson_ratio_r"`
	TacDensityR        float64 `yaml:"tac_density_r"`
	TacFriction        float64 `yaml:"tac_friction"`

	// peg insertion
	GripperXOffsetMM   float64 `yaml:"gripper_x_offset_mm"`
	GripperZOffsetMM   float64 `yaml:"gripper_z_offset_mm"`
	IndentationDepthMM float64 `yaml:"indentation_depth_mm"`
	PegFriction        float64 `yaml:"peg_friction"`
	HoleFriction       float64 `yaml:"hole_friction"`
}

func commonDefaults() Params {
	return Params{
		SimTimeStep:               0.1,
		SimDHat:                   1e-4,
		SimKappa:                  1e2,
		SimKappaAffine:            1e5,
		SimKappaCon:               1e10,
		SimEpsD:                   0,
		SimEpsV:                   1e-3,
		SimSolverNewtonMaxIters:   5,
		SimSolverCGMaxIters:       50,
		SimSolverCGErrorTolerance: 1e-4,
		SimSolverCGErrorFrequency: 10,
		LineSearchMaxIters:        10,
		CCDSlackness:              0.7,
		CCDThickness:              0,
		CCDTetInversionThres:      0,
		CCDMaxIters:               100,
		EEClassifyThres:           1e-3,
		EEMollifierThres:          1e-3,
		AllowSelfCollision:        false,
		TacSensorMetaFile:         "gelsight_mini_e430/meta_file",
		TacElasticModulusL:        3.0e5,
		TacPoissonRatioL:          0.3,
		TacDensityL:               1e3,
		TacElasticModulusR:        3.0e5,
		TacPoissonRatioR:          0.3,
		TacDensityR:               1e3,
		TacFriction:               100,
	}
}

func pegInsertionDefaults() Params {
	p := commonDefaults()
	p.GripperXOffsetMM = 0
	p.GripperZOffsetMM = 0
	p.IndentationDepthMM = 1
	p.PegFriction = 1
	p.HoleFriction = 1
	return p
}
