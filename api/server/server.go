package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/hereditas-net/hereditas/api"
	"github.com/hereditas-net/hereditas/core/journal"
	"github.com/hereditas-net/hereditas/core/vaultledger"
	"github.com/hereditas-net/hereditas/global"
	"github.com/hereditas-net/hereditas/ledger"
	"github.com/hereditas-net/hereditas/util"
	"github.com/prometheus/client_golang/prometheus"
)

type (
	environment interface {
		global.Logging
		global.Metrics
		// VaultLedger nil when the node runs the solo variant
		VaultLedger() *vaultledger.Ledger
		// SoloVaultLedger nil when the node runs the multi-vault variant
		SoloVaultLedger() *vaultledger.SoloLedger
		Journal() *journal.Journal
		// CurrentHeight the latest block height fed by the host chain follower
		CurrentHeight() ledger.Height
		SetCurrentHeight(h ledger.Height)
	}

	server struct {
		*http.Server
		environment
		metrics
	}

	metrics struct {
		totalRequests prometheus.Counter
	}
)

const TraceTag = "apiServer"

func (srv *server) registerHandlers() {
	// GET '/api/v1/ledger_info'
	srv.addHandler(api.PathGetLedgerInfo, srv.getLedgerInfo)
	// GET '/api/v1/get_status?vaultid=<id>' (multi) or '?owner=<address>' (solo)
	srv.addHandler(api.PathGetStatus, srv.getStatus)
	// GET '/api/v1/get_beneficiary?vaultid=<id>|owner=<address>'
	srv.addHandler(api.PathGetBeneficiary, srv.getBeneficiary)
	// GET '/api/v1/has_vault?vaultid=<id>|owner=<address>'
	srv.addHandler(api.PathHasVault, srv.hasVault)
	// GET '/api/v1/get_vault_count?owner=<address>' (multi-vault variant only)
	srv.addHandler(api.PathGetVaultCount, srv.getVaultCount)
	// GET '/api/v1/get_vault_id_by_index?owner=<address>&index=<i>' (multi-vault variant only)
	srv.addHandler(api.PathGetVaultIDByIndex, srv.getVaultIDByIndex)
	// GET '/api/v1/get_fee_amount'
	srv.addHandler(api.PathGetFeeAmount, srv.getFeeAmount)
	// GET '/api/v1/journal?max=<n>'
	srv.addHandler(api.PathGetJournal, srv.getJournal)

	// mutating entry points. The caller identity comes authenticated from the
	// host boundary; in this server it is taken verbatim from the 'caller'
	// parameter, signature checking is a host concern
	// POST '/api/v1/create_vault?caller=<address>&beneficiary=<address>'
	srv.addHandler(api.PathCreateVault, srv.createVault)
	// POST '/api/v1/check_in?caller=<address>&vaultid=<id>' (solo variant: no vaultid)
	srv.addHandler(api.PathCheckIn, srv.checkIn)
	// POST '/api/v1/deposit?caller=<address>&amount=<decimal>&vaultid=<id>' (solo variant: no vaultid)
	srv.addHandler(api.PathDeposit, srv.deposit)
	// POST '/api/v1/set_beneficiary?caller=<address>&beneficiary=<address>&vaultid=<id>' (solo variant: no vaultid)
	srv.addHandler(api.PathSetBeneficiary, srv.setBeneficiary)
	// POST '/api/v1/trigger_tier1?caller=<address>&vaultid=<id>|owner=<address>'
	srv.addHandler(api.PathTriggerTier1, srv.triggerTier1)
	// POST '/api/v1/trigger_tier2?caller=<address>&vaultid=<id>|owner=<address>'
	srv.addHandler(api.PathTriggerTier2, srv.triggerTier2)

	// POST '/api/v1/sync_height?height=<h>' feeds the current block height
	srv.addHandler(api.PathSyncHeight, srv.syncHeight)
}

func (srv *server) isSolo() bool {
	return srv.SoloVaultLedger() != nil
}

func (srv *server) variantString() string {
	if srv.isSolo() {
		return "solo"
	}
	return "multi"
}

func (srv *server) getLedgerInfo(w http.ResponseWriter, _ *http.Request) {
	setHeader(w)

	resp := &api.LedgerInfo{
		Version:       global.Version,
		Variant:       srv.variantString(),
		CurrentHeight: uint64(srv.CurrentHeight()),
	}
	if srv.isSolo() {
		resp.Description = srv.SoloVaultLedger().Params().Description
		resp.TotalVaultCount = srv.SoloVaultLedger().TotalVaultCount()
		resp.FeeAmount = srv.SoloVaultLedger().GetFeeAmount().DecimalString()
	} else {
		resp.Description = srv.VaultLedger().Params().Description
		resp.TotalVaultCount = srv.VaultLedger().TotalVaultCount()
		resp.FeeAmount = srv.VaultLedger().GetFeeAmount().DecimalString()
	}
	writeResponse(w, resp)
}

// vaultKeyParam extracts the per-variant vault key: 'vaultid' for the
// multi-vault ledger, 'owner' for the solo one
func (srv *server) vaultKeyParam(r *http.Request) (ledger.VaultID, ledger.Address, error) {
	if srv.isSolo() {
		owner, err := addressParam(r, "owner")
		if err != nil {
			return ledger.NilVaultID, ledger.NilAddress, err
		}
		return ledger.NilVaultID, owner, nil
	}
	lst, ok := r.URL.Query()["vaultid"]
	if !ok || len(lst) != 1 {
		return ledger.NilVaultID, ledger.NilAddress, fmt.Errorf("mandatory parameter 'vaultid' not provided")
	}
	id, err := ledger.VaultIDFromString(lst[0])
	if err != nil {
		return ledger.NilVaultID, ledger.NilAddress, err
	}
	return id, ledger.NilAddress, nil
}

func addressParam(r *http.Request, name string) (ledger.Address, error) {
	lst, ok := r.URL.Query()[name]
	if !ok || len(lst) != 1 {
		return ledger.NilAddress, fmt.Errorf("mandatory parameter '%s' not provided", name)
	}
	return ledger.AddressFromHexString(lst[0])
}

// heightParam the height the operation is executed at: the optional explicit
// 'height' parameter overrides the node's followed height (used by tests and
// by hosts which resolve the height themselves)
func (srv *server) heightParam(r *http.Request) (ledger.Height, error) {
	lst, ok := r.URL.Query()["height"]
	if !ok {
		return srv.CurrentHeight(), nil
	}
	if len(lst) != 1 {
		return 0, fmt.Errorf("wrong parameter 'height'")
	}
	h, err := strconv.ParseUint(lst[0], 10, 64)
	if err != nil {
		return 0, err
	}
	return ledger.Height(h), nil
}

func (srv *server) getStatus(w http.ResponseWriter, r *http.Request) {
	setHeader(w)

	id, owner, err := srv.vaultKeyParam(r)
	if err != nil {
		writeErr(w, err.Error())
		return
	}
	now, err := srv.heightParam(r)
	if err != nil {
		writeErr(w, err.Error())
		return
	}
	var bundle *ledger.StatusBundle
	if srv.isSolo() {
		bundle, err = srv.SoloVaultLedger().GetStatus(owner, now)
	} else {
		bundle, err = srv.VaultLedger().GetStatus(id, now)
	}
	if err != nil {
		writeErr(w, err.Error())
		return
	}
	writeResponse(w, api.StatusFromBundle(bundle))
}

func (srv *server) getBeneficiary(w http.ResponseWriter, r *http.Request) {
	setHeader(w)

	id, owner, err := srv.vaultKeyParam(r)
	if err != nil {
		writeErr(w, err.Error())
		return
	}
	var beneficiary ledger.Address
	if srv.isSolo() {
		beneficiary, err = srv.SoloVaultLedger().GetBeneficiary(owner)
	} else {
		beneficiary, err = srv.VaultLedger().GetBeneficiary(id)
	}
	if err != nil {
		writeErr(w, err.Error())
		return
	}
	writeResponse(w, &api.Beneficiary{Beneficiary: beneficiary.String()})
}

func (srv *server) hasVault(w http.ResponseWriter, r *http.Request) {
	setHeader(w)

	id, owner, err := srv.vaultKeyParam(r)
	if err != nil {
		writeErr(w, err.Error())
		return
	}
	var exists bool
	if srv.isSolo() {
		exists = srv.SoloVaultLedger().HasVault(owner)
	} else {
		exists = srv.VaultLedger().HasVault(id)
	}
	writeResponse(w, &api.HasVault{Exists: exists})
}

func (srv *server) getVaultCount(w http.ResponseWriter, r *http.Request) {
	setHeader(w)

	if srv.isSolo() {
		writeErr(w, "get_vault_count is not available in the solo variant")
		return
	}
	owner, err := addressParam(r, "owner")
	if err != nil {
		writeErr(w, err.Error())
		return
	}
	writeResponse(w, &api.VaultCount{Count: srv.VaultLedger().GetVaultCount(owner)})
}

func (srv *server) getVaultIDByIndex(w http.ResponseWriter, r *http.Request) {
	setHeader(w)

	if srv.isSolo() {
		writeErr(w, "get_vault_id_by_index is not available in the solo variant")
		return
	}
	owner, err := addressParam(r, "owner")
	if err != nil {
		writeErr(w, err.Error())
		return
	}
	lst, ok := r.URL.Query()["index"]
	if !ok || len(lst) != 1 {
		writeErr(w, "mandatory parameter 'index' not provided")
		return
	}
	idx, err := strconv.ParseUint(lst[0], 10, 64)
	if err != nil {
		writeErr(w, err.Error())
		return
	}
	id, err := srv.VaultLedger().GetVaultIDByIndex(owner, idx)
	if err != nil {
		writeErr(w, err.Error())
		return
	}
	writeResponse(w, &api.VaultIDByIndex{VaultID: id.StringHex()})
}

func (srv *server) getFeeAmount(w http.ResponseWriter, _ *http.Request) {
	setHeader(w)

	var fee ledger.Amount
	if srv.isSolo() {
		fee = srv.SoloVaultLedger().GetFeeAmount()
	} else {
		fee = srv.VaultLedger().GetFeeAmount()
	}
	writeResponse(w, &api.FeeAmount{FeeAmount: fee.DecimalString()})
}

func (srv *server) getJournal(w http.ResponseWriter, r *http.Request) {
	setHeader(w)

	max := 20
	lst, ok := r.URL.Query()["max"]
	if ok && len(lst) == 1 {
		var err error
		max, err = strconv.Atoi(lst[0])
		if err != nil {
			writeErr(w, err.Error())
			return
		}
	}
	events := srv.Journal().Recent(max)
	resp := &api.Journal{
		TotalRecords: srv.Journal().NumRecords(),
		Events:       make([]api.ReleaseEventJSONAble, 0, len(events)),
	}
	for _, ev := range events {
		resp.Events = append(resp.Events, api.JSONAbleFromReleaseEvent(ev))
	}
	writeResponse(w, resp)
}

func (srv *server) createVault(w http.ResponseWriter, r *http.Request) {
	setHeader(w)

	caller, err := addressParam(r, "caller")
	if err != nil {
		writeErr(w, err.Error())
		return
	}
	beneficiary, err := addressParam(r, "beneficiary")
	if err != nil {
		writeErr(w, err.Error())
		return
	}
	now, err := srv.heightParam(r)
	if err != nil {
		writeErr(w, err.Error())
		return
	}
	resp := &api.CreateVault{}
	if srv.isSolo() {
		if err = srv.SoloVaultLedger().CreateVault(caller, beneficiary, now); err != nil {
			writeErr(w, err.Error())
			return
		}
	} else {
		var id ledger.VaultID
		if id, err = srv.VaultLedger().CreateVault(caller, beneficiary, now); err != nil {
			writeErr(w, err.Error())
			return
		}
		resp.VaultID = id.StringHex()
	}
	resp.Success = true
	writeResponse(w, resp)
}

func (srv *server) checkIn(w http.ResponseWriter, r *http.Request) {
	setHeader(w)

	caller, err := addressParam(r, "caller")
	if err != nil {
		writeErr(w, err.Error())
		return
	}
	now, err := srv.heightParam(r)
	if err != nil {
		writeErr(w, err.Error())
		return
	}
	if srv.isSolo() {
		err = srv.SoloVaultLedger().CheckIn(caller, now)
	} else {
		var id ledger.VaultID
		if id, _, err = srv.vaultKeyParam(r); err == nil {
			err = srv.VaultLedger().CheckIn(caller, id, now)
		}
	}
	if err != nil {
		writeErr(w, err.Error())
		return
	}
	writeResponse(w, &api.SuccessResponse{Success: true})
}

func (srv *server) deposit(w http.ResponseWriter, r *http.Request) {
	setHeader(w)

	caller, err := addressParam(r, "caller")
	if err != nil {
		writeErr(w, err.Error())
		return
	}
	lst, ok := r.URL.Query()["amount"]
	if !ok || len(lst) != 1 {
		writeErr(w, "mandatory parameter 'amount' not provided")
		return
	}
	amount, err := ledger.AmountFromDecimalString(lst[0])
	if err != nil {
		writeErr(w, err.Error())
		return
	}
	now, err := srv.heightParam(r)
	if err != nil {
		writeErr(w, err.Error())
		return
	}
	if srv.isSolo() {
		err = srv.SoloVaultLedger().Deposit(caller, amount, now)
	} else {
		var id ledger.VaultID
		if id, _, err = srv.vaultKeyParam(r); err == nil {
			err = srv.VaultLedger().Deposit(caller, id, amount, now)
		}
	}
	if err != nil {
		writeErr(w, err.Error())
		return
	}
	writeResponse(w, &api.SuccessResponse{Success: true})
}

func (srv *server) setBeneficiary(w http.ResponseWriter, r *http.Request) {
	setHeader(w)

	caller, err := addressParam(r, "caller")
	if err != nil {
		writeErr(w, err.Error())
		return
	}
	newBeneficiary, err := addressParam(r, "beneficiary")
	if err != nil {
		writeErr(w, err.Error())
		return
	}
	now, err := srv.heightParam(r)
	if err != nil {
		writeErr(w, err.Error())
		return
	}
	if srv.isSolo() {
		err = srv.SoloVaultLedger().SetBeneficiary(caller, newBeneficiary, now)
	} else {
		var id ledger.VaultID
		if id, _, err = srv.vaultKeyParam(r); err == nil {
			err = srv.VaultLedger().SetBeneficiary(caller, id, newBeneficiary, now)
		}
	}
	if err != nil {
		writeErr(w, err.Error())
		return
	}
	writeResponse(w, &api.SuccessResponse{Success: true})
}

func (srv *server) triggerTier1(w http.ResponseWriter, r *http.Request) {
	srv.trigger(w, r, 1)
}

func (srv *server) triggerTier2(w http.ResponseWriter, r *http.Request) {
	srv.trigger(w, r, 2)
}

func (srv *server) trigger(w http.ResponseWriter, r *http.Request, tier int) {
	setHeader(w)

	// no ownership guard: the release is callable by any principal, the
	// caller identity is only recorded with the journal event
	caller, err := addressParam(r, "caller")
	if err != nil {
		writeErr(w, err.Error())
		return
	}
	id, owner, err := srv.vaultKeyParam(r)
	if err != nil {
		writeErr(w, err.Error())
		return
	}
	now, err := srv.heightParam(r)
	if err != nil {
		writeErr(w, err.Error())
		return
	}
	var released ledger.Amount
	switch {
	case srv.isSolo() && tier == 1:
		released, err = srv.SoloVaultLedger().TriggerTier1(caller, owner, now)
	case srv.isSolo() && tier == 2:
		released, err = srv.SoloVaultLedger().TriggerTier2(caller, owner, now)
	case tier == 1:
		released, err = srv.VaultLedger().TriggerTier1(caller, id, now)
	default:
		released, err = srv.VaultLedger().TriggerTier2(caller, id, now)
	}
	if err != nil {
		writeErr(w, err.Error())
		return
	}
	writeResponse(w, &api.Trigger{ReleasedAmount: released.DecimalString()})
}

func (srv *server) syncHeight(w http.ResponseWriter, r *http.Request) {
	setHeader(w)

	lst, ok := r.URL.Query()["height"]
	if !ok || len(lst) != 1 {
		writeErr(w, "mandatory parameter 'height' not provided")
		return
	}
	h, err := strconv.ParseUint(lst[0], 10, 64)
	if err != nil {
		writeErr(w, err.Error())
		return
	}
	srv.SetCurrentHeight(ledger.Height(h))
	writeResponse(w, &api.SyncHeight{CurrentHeight: uint64(srv.CurrentHeight())})
}

func writeResponse(w http.ResponseWriter, resp any) {
	respBin, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		writeErr(w, err.Error())
		return
	}
	_, err = w.Write(respBin)
	util.AssertNoError(err)
}

func writeErr(w http.ResponseWriter, errStr string) {
	respBytes, err := json.Marshal(&api.Error{Error: errStr})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	_, err = w.Write(respBytes)
	util.AssertNoError(err)
}

func setHeader(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

func Run(addr string, env environment) {
	srv := &server{
		Server: &http.Server{
			Addr:         addr,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  10 * time.Second,
		},
		environment: env,
	}
	srv.registerHandlers()
	srv.registerMetrics()

	err := srv.ListenAndServe()
	util.AssertNoError(err)
}

func (srv *server) registerMetrics() {
	srv.metrics.totalRequests = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hereditas_api_totalRequests",
		Help: "total API requests",
	})
	srv.MetricsRegistry().MustRegister(srv.metrics.totalRequests)
}

func (srv *server) addHandler(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	http.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		srv.Tracef(TraceTag, "API request: %s from %s", r.URL.String(), r.RemoteAddr)
		handler(w, r)
		srv.metrics.totalRequests.Inc()
	})
}
