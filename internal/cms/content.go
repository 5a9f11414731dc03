package cms

import "context"

// RichText is the CMS representation of an editor-authored rich text
// block. Only the rendered markup is used.
type RichText struct {
	Markup string `json:"markup"`
}

type HomeContent struct {
	Heading        string   `json:"heading"`
	MainText       RichText `json:"mainText"`
	CreateLabel    string   `json:"createGameLabel"`
	JoinLabel      string   `json:"joinGameLabel"`
	RoomIDLabel    string   `json:"roomIdLabel"`
	NicknameLabel  string   `json:"nicknameLabel"`
	StartButtonTxt string   `json:"startButtonText"`
}

type LobbyContent struct {
	Heading        string   `json:"heading"`
	WaitingText    string   `json:"waitingText"`
	MainText       RichText `json:"mainText"`
	StartGameLabel string   `json:"startGameLabel"`
}

type GameContent struct {
	Heading           string   `json:"heading"`
	MainText          RichText `json:"mainText"`
	EndGameLabel      string   `json:"endGameLabel"`
	NowPlayingTxt     string   `json:"nowPlayingText"`
	SearchPlaceholder string   `json:"searchPlaceholder"`
	PlaylistBy        string   `json:"playlistBy"`
}

type AnswerContent struct {
	Heading               string   `json:"answerHeading"`
	MainText              RichText `json:"answerMainText"`
	ArtistFormLabel       string   `json:"artistFormLabel"`
	ArtistFormPlaceholder string   `json:"artistFormPlaceholder"`
	SongFormLabel         string   `json:"songFormLabel"`
	SongFormPlaceholder   string   `json:"songFormPlaceholder"`
	SubmitLabel           string   `json:"submitLabel"`
}

type EndContent struct {
	Heading       string   `json:"heading"`
	MainText      RichText `json:"mainText"`
	PlayAgainText string   `json:"playAgainText"`
}

type InfoContent struct {
	Heading  string   `json:"heading"`
	MainText RichText `json:"mainText"`
}

func (c *Client) Home(ctx context.Context, locale string) (HomeContent, error) {
	var content HomeContent
	err := c.item(ctx, locale, "home", &content)
	return content, err
}

func (c *Client) Lobby(ctx context.Context, locale string) (LobbyContent, error) {
	var content LobbyContent
	err := c.item(ctx, locale, "lobby", &content)
	return content, err
}

func (c *Client) Game(ctx context.Context, locale string) (GameContent, error) {
	var content GameContent
	err := c.item(ctx, locale, "game", &content)
	return content, err
}

func (c *Client) Answer(ctx context.Context, locale string) (AnswerContent, error) {
	var content AnswerContent
	err := c.item(ctx, locale, "answer", &content)
	return content, err
}

func (c *Client) End(ctx context.Context, locale string) (EndContent, error) {
	var content EndContent
	err := c.item(ctx, locale, "end", &content)
	return content, err
}

func (c *Client) About(ctx context.Context, locale string) (InfoContent, error) {
	var content InfoContent
	err := c.item(ctx, locale, "about", &content)
	return content, err
}

func (c *Client) HowToPlay(ctx context.Context, locale string) (InfoContent, error) {
	var content InfoContent
	err := c.item(ctx, locale, "howtoplay", &content)
	return content, err
}
