package glb

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

func Infof(format string, args ...any) {
	fmt.Printf(format+"\n", args...)
}

func IsVerbose() bool {
	return viper.GetBool("verbose")
}

func Verbosef(format string, args ...any) {
	if IsVerbose() {
		fmt.Printf(format+"\n", args...)
	}
}

func Fatalf(format string, args ...any) {
	fmt.Printf("Error: "+format+"\n", args...)
	os.Exit(1)
}

func AssertNoError(err error) {
	if err != nil {
		Fatalf("error: %v", err)
	}
}

func Assertf(cond bool, format string, args ...any) {
	if !cond {
		Fatalf(format, args...)
	}
}

func ReadInConfig() {
	configName := viper.GetString("config")
	if configName == "" {
		configName = "herdi"
	}
	viper.SetConfigName(configName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()
	_ = viper.ReadInConfig()
	Verbosef("using config profile: %s", viper.ConfigFileUsed())
}
