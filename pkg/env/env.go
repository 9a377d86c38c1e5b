package env

import (
	logging "github.com/ipfs/go-log/v2"
	"os"
	"strconv"
	"time"
)

type Key string

const (
	ListenAddr      Key = "IPFS2FILECOIN_LISTEN_ADDR"
	IPFSGateway     Key = "IPFS2FILECOIN_IPFS_GATEWAY"
	MinerID         Key = "IPFS2FILECOIN_MINER_ID"
	FetchTimeout    Key = "IPFS2FILECOIN_FETCH_TIMEOUT"
	CommandTimeout  Key = "IPFS2FILECOIN_COMMAND_TIMEOUT"
	MaxDealAttempts Key = "IPFS2FILECOIN_MAX_DEAL_ATTEMPTS"
	CommpCacheTTL   Key = "IPFS2FILECOIN_COMMP_CACHE_TTL"
	BoostPath       Key = "IPFS2FILECOIN_BOOST_PATH"
	BoostxPath      Key = "IPFS2FILECOIN_BOOSTX_PATH"
	MongoURI        Key = "IPFS2FILECOIN_MONGO_URI"
	MongoDatabase   Key = "IPFS2FILECOIN_MONGO_DATABASE"
)

func GetString(key Key, defaultValue string) string {
	value := os.Getenv(string(key))
	if value == "" {
		return defaultValue
	}

	return value
}

func GetInt(key Key, defaultValue int) int {
	value := os.Getenv(string(key))
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		logging.Logger("env").Debugf("failed to parse %s as int", key)
		return defaultValue
	}

	return intValue
}

func GetRequiredString(key Key) string {
	value := os.Getenv(string(key))
	if value == "" {
		logging.Logger("env").Panicf("%s not set", key)
	}

	return value
}

func GetDuration(key Key, defaultValue time.Duration) time.Duration {
	value := os.Getenv(string(key))
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		logging.Logger("env").Debugf("failed to parse %s as duration", key)
		return defaultValue
	}

	return duration
}
