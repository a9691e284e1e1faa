package main

import (
	"PBFTSim/Config"
	"PBFTSim/ID"
	"PBFTSim/Log"
	"PBFTSim/Simulation"

	"github.com/spf13/pflag"
)

var (
	configPath = pflag.StringP("config",
		"c",
		"",
		"path of the TOML simulation config file")
	totalNodes = pflag.IntP("totalNodes",
		"n",
		0,
		"total number of consensus nodes, overrides config when set")
	faulty = pflag.IntP("faulty",
		"f",
		-1,
		"number of tolerated byzantine nodes, overrides config when set")
	byzantineNodes = pflag.IntSliceP("byzantine",
		"b",
		nil,
		"byzantine node ids, overrides config when set")
	loggerLevel = pflag.IntP("loggerLevel",
		"l",
		-1,
		"the log level in node, 0: info, 1: debug, overrides config when set")
	blockData = pflag.StringP("data",
		"d",
		"",
		"payload of the proposed block, overrides config when set")
)

// DriverID 驱动器自身的日志标识，不属于任何共识节点
const DriverID = ID.NodeID(0)

func main() {

	/*******************************************************************/
	pflag.Parse()

	/*******************************************************************/
	cfg, err := Config.Load(*configPath)
	if err != nil {
		bootLogger := Log.LoggerInit(0, DriverID)
		bootLogger.Fatalf("load config failed: %v", err)
	}

	if *totalNodes > 0 {
		cfg.TotalNodes = *totalNodes
	}
	if *faulty >= 0 {
		cfg.Faulty = *faulty
	}
	if len(*byzantineNodes) > 0 {
		cfg.ByzantineNodes = *byzantineNodes
	}
	if *loggerLevel >= 0 {
		cfg.LogLevel = *loggerLevel
	}
	if *blockData != "" {
		cfg.BlockData = *blockData
	}

	/*******************************************************************/
	//定制logger
	logger := Log.FileLoggerInit(cfg.LogLevel, DriverID, cfg.LogFile)
	defer logger.Sync()

	/*******************************************************************/
	//配置不合法时在创建任何节点之前终止运行
	runner, err := Simulation.NewRunner(cfg, logger)
	if err != nil {
		logger.Fatalf("simulation rejected: %v", err)
	}

	result := runner.Run()
	result.Narrate(logger)
	result.Stats.Report(logger)

}
