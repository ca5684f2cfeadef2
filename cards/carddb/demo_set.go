// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package carddb

// The built-in demo set lets a freshly started server create games without
// any configured card database. It carries the OP13 five elders cards that
// have curated ability definitions, plus two vanilla fillers. Entries use
// the same Japanese column names as the scraped database dumps.

func demoCardDatabase() []map[string]any {
	return []map[string]any{
		{
			"品番": "OP13-079", "名前": "イム", "種類": "リーダー", "色": "黒",
			"コスト": "-", "パワー": 5000, "カウンター": "-", "ライフ": 5,
			"属性": "特", "特徴": "天竜人",
			"テキスト": "『起動メイン』『ターン1回』自分の場の特徴《天竜人》を持つキャラか手札1枚をトラッシュに置くことで、カード1枚を引く。",
		},
		{
			"品番": "OP13-080", "名前": "イーザンバロン・V・ナス寿郎聖", "種類": "キャラクター", "色": "黒",
			"コスト": 9, "パワー": 10000, "カウンター": "-", "ライフ": "-",
			"属性": "斬", "特徴": "五老星/天竜人",
			"テキスト": "『アタック時』自分のトラッシュが10枚以上ある場合、相手のキャラ1枚までを、このターン中、パワー-2000。",
		},
		{
			"品番": "OP13-083", "名前": "ジェイガルシア・サターン聖", "種類": "キャラクター", "色": "黒",
			"コスト": 5, "パワー": 6000, "カウンター": 1000, "ライフ": "-",
			"属性": "特", "特徴": "五老星/天竜人",
			"テキスト": "『登場時』自分のデッキの上から5枚を見て、特徴《五老星》を持つカード1枚までを公開し、手札に加える。その後、残りを好きな順番でデッキの下に置く。",
		},
		{
			"品番": "OP13-086", "名前": "シャルリア宮", "種類": "キャラクター", "色": "黒",
			"コスト": 2, "パワー": 3000, "カウンター": 1000, "ライフ": "-",
			"属性": "知", "特徴": "天竜人",
			"テキスト": "『登場時』自分のデッキの上から3枚を見て、「シャルリア宮」以外の特徴《天竜人》を持つカード1枚までを公開し、手札に加え、残りをトラッシュに置く。その後、自分の手札1枚を捨てる。",
		},
		{
			"品番": "OP13-087", "名前": "チャルロス聖", "種類": "キャラクター", "色": "黒",
			"コスト": 3, "パワー": 4000, "カウンター": 1000, "ライフ": "-",
			"属性": "知", "特徴": "天竜人",
			"テキスト": "『ブロッカー』/『登場時』自分のデッキの上から1枚をトラッシュに置く。",
		},
		{
			"品番": "OP13-089", "名前": "トップマン・ウォーキュリー聖", "種類": "キャラクター", "色": "黒",
			"コスト": 4, "パワー": 5000, "カウンター": 1000, "ライフ": "-",
			"属性": "打", "特徴": "五老星/天竜人",
			"テキスト": "『KO時』カード1枚を引く。",
		},
		{
			"品番": "OP13-091", "名前": "マーカス・マーズ聖", "種類": "キャラクター", "色": "黒",
			"コスト": 7, "パワー": 8000, "カウンター": 1000, "ライフ": "-",
			"属性": "射", "特徴": "五老星/天竜人",
			"テキスト": "『登場時』自分の手札1枚を捨てることができる。そうした場合、相手の元々のコスト5以下のキャラ1枚までを、KOする。",
		},
		{
			"品番": "OP13-092", "名前": "ミョスガルド聖", "種類": "キャラクター", "色": "黒",
			"コスト": 4, "パワー": 5000, "カウンター": 2000, "ライフ": "-",
			"属性": "特", "特徴": "天竜人",
			"テキスト": "『登場時』自分のライフが3枚以下の場合、自分のトラッシュからコスト1の特徴《聖地マリージョア》を持つステージカード1枚までを、登場させる。",
		},
		{
			"品番": "OP13-096", "名前": "\"五老星\"ここに!!!", "種類": "イベント", "色": "黒",
			"コスト": 1, "パワー": "-", "カウンター": "-", "ライフ": "-",
			"属性": "特", "特徴": "五老星",
			"テキスト": "『メイン』自分のデッキの上から3枚を見て、特徴《天竜人》を持つカード1枚までを公開し、手札に加え、残りをトラッシュに置く。",
		},
		{
			"品番": "OP13-097", "名前": "世界の均衡など…永遠には保てぬのだ", "種類": "イベント", "色": "黒",
			"コスト": 2, "パワー": "-", "カウンター": "-", "ライフ": "-",
			"属性": "特", "特徴": "五老星",
			"テキスト": "『メイン』自分のドン!!5枚をレストにすることで、相手の元々のコスト6以下のキャラ1枚までを、KOする。",
		},
		{
			"品番": "OP13-099", "名前": "虚の玉座", "種類": "ステージ", "色": "黒",
			"コスト": 1, "パワー": "-", "カウンター": "-", "ライフ": "-",
			"属性": "-", "特徴": "聖地マリージョア",
			"テキスト": "『起動メイン』このカードとドン!!3枚をレストにすることで、自分の手札から黒の特徴《五老星》を持つキャラカード1枚までを登場させる。",
		},
		{
			"品番": "DEMO-001", "名前": "聖衛兵", "種類": "キャラクター", "色": "黒",
			"コスト": 2, "パワー": 3000, "カウンター": 1000, "ライフ": "-",
			"属性": "打", "特徴": "聖地マリージョア",
		},
		{
			"品番": "DEMO-002", "名前": "神の騎士団見習い", "種類": "キャラクター", "色": "黒",
			"コスト": 1, "パワー": 2000, "カウンター": 1000, "ライフ": "-",
			"属性": "斬", "特徴": "神の騎士団",
		},
	}
}

// DefaultDemoDeck is the deck used when a create request names none.
const DefaultDemoDeck = "gorousei"

var demoDecks = map[string]deckFile{
	DefaultDemoDeck: {
		Leader: &deckEntry{Number: "OP13-079"},
		Cards: []deckEntry{
			{Number: "OP13-080", Count: 4},
			{Number: "OP13-083", Count: 4},
			{Number: "OP13-086", Count: 4},
			{Number: "OP13-087", Count: 4},
			{Number: "OP13-089", Count: 4},
			{Number: "OP13-091", Count: 4},
			{Number: "OP13-092", Count: 4},
			{Number: "OP13-096", Count: 4},
			{Number: "OP13-097", Count: 4},
			{Number: "OP13-099", Count: 4},
			{Number: "DEMO-001", Count: 5},
			{Number: "DEMO-002", Count: 5},
		},
	},
}
