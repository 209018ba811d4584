package handler

// ReturnResponse 決済ページからの戻りレスポンス
type ReturnResponse struct {
	CodTrans string `json:"cod_trans"`
	Outcome  string `json:"outcome"`
	Status   string `json:"status"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
	Message  string `json:"message,omitempty"`
}

// CancelResponse 顧客キャンセルのレスポンス
type CancelResponse struct {
	CodTrans string `json:"cod_trans"`
	Outcome  string `json:"outcome"`
	Status   string `json:"status"`
}
