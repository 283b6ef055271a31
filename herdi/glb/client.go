package glb

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hereditas-net/hereditas/ledger"
	"github.com/spf13/viper"
)

const defaultAPIEndpoint = "http://127.0.0.1:8070"

func apiEndpoint() string {
	if ep := viper.GetString("api.endpoint"); ep != "" {
		return ep
	}
	return defaultAPIEndpoint
}

// APIGet performs a GET call against the node API and decodes the JSON
// response into target. The caller checks the embedded error field
func APIGet(path string, params url.Values, target any) error {
	u := apiEndpoint() + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	Verbosef("API call: %s", u)

	client := http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(u)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if err = json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("can't parse API response: %w", err)
	}
	return nil
}

// MustCallerAddress the identity the CLI acts as, from the '--as' flag or the
// 'wallet.address' config value
func MustCallerAddress() ledger.Address {
	s := viper.GetString("as")
	if s == "" {
		s = viper.GetString("wallet.address")
	}
	Assertf(s != "", "caller address not specified: use the --as flag or the 'wallet.address' config value")
	addr, err := ledger.AddressFromHexString(s)
	AssertNoError(err)
	return addr
}
